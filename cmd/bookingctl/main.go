// bookingctl — служебная консоль сервиса бронирований: демо-данные,
// импорт расписаний, выгрузка бронирований и рассылка напоминаний.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ResourceBookingService/internal/config"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	bookingsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/logger"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sql.DB
	bookings  *bookingRepo.Repository
	resources *resourceRepo.Repository
}

func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.log != nil {
		d.log.Close()
	}
}

func open(configPath string) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		log.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &deps{
		cfg:       cfg,
		log:       log,
		db:        db,
		bookings:  bookingRepo.NewRepository(db),
		resources: resourceRepo.NewRepository(db),
	}, nil
}

// timetableFile формат файла импорта расписания
type timetableFile struct {
	Name     string                     `json:"name"`
	Kind     domain.TimetableKind       `json:"kind"`
	Schedule *domain.WeeklySchedule     `json:"schedule,omitempty"`
	Dates    map[string]domain.DayHours `json:"dates,omitempty"`
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Service console for the resource booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")

	root.AddCommand(
		seedDemoCmd(&configPath),
		importTimetableCmd(&configPath),
		exportBookingsCmd(&configPath),
		sendRemindersCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bookingctl: %v\n", err)
		os.Exit(1)
	}
}

func seedDemoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Create a demo resource with a weekly timetable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()

			res, err := d.resources.Create(ctx, &domain.Resource{
				CompanyID:    1,
				ResourceType: "meeting_room",
				Name:         "Demo Room",
				Config: domain.ResourceConfig{
					RequireConfirmation: true,
					SlotDurationMinutes: 60,
					SlotStrategy:        domain.StrategyFixed,
					MinAdvanceMinutes:   30,
					CancelBeforeMinutes: ptr.Ptr(60),
				},
			})
			if err != nil {
				return err
			}

			tt, err := d.resources.CreateTimetable(ctx, &domain.TimetablePayload{
				ResourceID: res.ID,
				Name:       "weekly",
				Kind:       domain.TimetableStatic,
				Schedule: &domain.WeeklySchedule{
					Default: &domain.DayHours{
						Start: ptr.Ptr("09:00"),
						End:   ptr.Ptr("18:00"),
						Breaks: []domain.BreakWindow{
							{Start: ptr.Ptr("13:00"), End: ptr.Ptr("14:00")},
						},
					},
					Exceptions: map[string]domain.DayHours{
						"saturday": {},
						"sunday":   {},
					},
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("created resource id=%d with timetable id=%d\n", res.ID, tt.ID)
			return nil
		},
	}
}

func importTimetableCmd(configPath *string) *cobra.Command {
	var resourceID int64
	var file string

	cmd := &cobra.Command{
		Use:   "import-timetable",
		Short: "Import a timetable for a resource from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			var payload timetableFile
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			if payload.Kind != domain.TimetableStatic && payload.Kind != domain.TimetableDynamic {
				return fmt.Errorf("unknown timetable kind %q", payload.Kind)
			}

			d, err := open(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()

			if _, err := d.resources.GetByID(ctx, resourceID); err != nil {
				return err
			}

			tt, err := d.resources.CreateTimetable(ctx, &domain.TimetablePayload{
				ResourceID: resourceID,
				Name:       payload.Name,
				Kind:       payload.Kind,
				Schedule:   payload.Schedule,
			})
			if err != nil {
				return err
			}

			for date, day := range payload.Dates {
				if err := d.resources.UpsertTimetableDate(ctx, tt.ID, date, day); err != nil {
					return err
				}
			}

			fmt.Printf("imported timetable id=%d for resource id=%d (%d date overrides)\n",
				tt.ID, resourceID, len(payload.Dates))
			return nil
		},
	}

	cmd.Flags().Int64Var(&resourceID, "resource", 0, "resource id")
	cmd.Flags().StringVar(&file, "file", "", "path to timetable JSON")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func exportBookingsCmd(configPath *string) *cobra.Command {
	var resourceID int64
	var fromRaw, toRaw string
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "export-bookings",
		Short: "Export bookings of a resource as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.ResourceBookingsFilter{
				ResourceID:      resourceID,
				IncludeInactive: includeInactive,
			}

			if fromRaw != "" {
				from, err := time.Parse(time.RFC3339, fromRaw)
				if err != nil {
					return fmt.Errorf("parse --from: %w", err)
				}
				filter.From = &from
			}
			if toRaw != "" {
				to, err := time.Parse(time.RFC3339, toRaw)
				if err != nil {
					return fmt.Errorf("parse --to: %w", err)
				}
				filter.To = &to
			}

			d, err := open(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			bookings, err := d.bookings.GetByResourceWithFilter(cmd.Context(), filter)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(bookings)
		},
	}

	cmd.Flags().Int64Var(&resourceID, "resource", 0, "resource id")
	cmd.Flags().StringVar(&fromRaw, "from", "", "period start (RFC 3339)")
	cmd.Flags().StringVar(&toRaw, "to", "", "period end (RFC 3339)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "include terminal bookings")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

func sendRemindersCmd(configPath *string) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "send-reminders",
		Short: "Publish reminder events for upcoming confirmed bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open(*configPath)
			if err != nil {
				return err
			}
			defer d.close()

			svc := bookingsService.NewService(
				d.bookings,
				d.resources,
				events.NewLogSink(d.log),
				realTime{},
				d.log,
			)

			sent, err := svc.SendReminders(context.Background(), minutes)
			if err != nil {
				return err
			}

			fmt.Printf("published %d reminders\n", sent)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 60, "default reminder window in minutes")

	return cmd
}

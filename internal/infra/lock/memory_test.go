package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	locker := NewMemoryLocker(time.Second)

	const workers = 16

	var wg sync.WaitGroup
	var inside, maxInside int
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			handle, err := locker.Acquire(context.Background(), ResourceKey(1), time.Second)
			require.NoError(t, err)
			defer handle.Release(context.Background())

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestMemoryLocker_Timeout(t *testing.T) {
	locker := NewMemoryLocker(50 * time.Millisecond)

	handle, err := locker.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrLockTimeout)

	require.NoError(t, handle.Release(context.Background()))

	// После освобождения блокировка снова доступна
	handle, err = locker.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	handle.Release(context.Background())
}

func TestMemoryLocker_IndependentKeys(t *testing.T) {
	locker := NewMemoryLocker(50 * time.Millisecond)

	h1, err := locker.Acquire(context.Background(), ResourceKey(1), time.Second)
	require.NoError(t, err)
	defer h1.Release(context.Background())

	h2, err := locker.Acquire(context.Background(), ResourceKey(2), time.Second)
	require.NoError(t, err)
	defer h2.Release(context.Background())
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	locker := NewMemoryLocker(time.Minute)

	handle, err := locker.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer handle.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryHandle_DoubleRelease(t *testing.T) {
	locker := NewMemoryLocker(time.Second)

	handle, err := locker.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	require.NoError(t, handle.Release(context.Background()))
	require.NoError(t, handle.Release(context.Background()))

	// Повторный Release не освобождает блокировку за другого владельца
	other, err := locker.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	other.Release(context.Background())
}

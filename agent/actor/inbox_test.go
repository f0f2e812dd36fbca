package actor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestInbox_Do(t *testing.T) {
	in := Start("test")
	defer in.Stop()

	got, err := in.Do(ctx, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
	assert.Equal(t, "test", in.Name())
}

func TestInbox_Sequential(t *testing.T) {
	in := Start("seq")
	defer in.Stop()

	var running, maxRunning int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := in.Do(ctx, func(context.Context) ([]byte, error) {
				n := atomic.AddInt32(&running, 1)
				for {
					m := atomic.LoadInt32(&maxRunning)
					if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxRunning)
}

func TestInbox_Reentrant(t *testing.T) {
	a, b := Start("a"), Start("b")
	defer a.Stop()
	defer b.Stop()

	// a -> a
	_, err := a.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return a.Do(ctx, func(context.Context) ([]byte, error) { return nil, nil })
	})
	assert.ErrorIs(t, err, ErrReentrant)

	// a -> b -> a
	_, err = a.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return b.Do(ctx, func(ctx context.Context) ([]byte, error) {
			return a.Do(ctx, func(context.Context) ([]byte, error) { return nil, nil })
		})
	})
	assert.ErrorIs(t, err, ErrReentrant)

	// a -> b is fine
	got, err := a.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return b.Do(ctx, func(context.Context) ([]byte, error) { return []byte("b"), nil })
	})
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}

func TestInbox_Stopped(t *testing.T) {
	in := Start("stopped")
	in.Stop()
	in.Stop() // twice is ok

	_, err := in.Do(ctx, func(context.Context) ([]byte, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestInbox_Panic(t *testing.T) {
	in := Start("panic")
	defer in.Stop()

	_, err := in.Do(ctx, func(context.Context) ([]byte, error) { panic("boom") })
	assert.Error(t, err)

	got, err := in.Do(ctx, func(context.Context) ([]byte, error) { return []byte("alive"), nil })
	require.NoError(t, err)
	assert.Equal(t, "alive", string(got))
}

func TestInbox_ContextCanceled(t *testing.T) {
	in := Start("cancel")
	defer in.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = in.Do(ctx, func(context.Context) ([]byte, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started

	cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err := in.Do(cctx, func(context.Context) ([]byte, error) { return nil, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, e2.ErrTimeout)
	assert.Equal(t, e2.Timeout, e2.KindOf(err))
	close(release)
}

func TestInbox_ContextCanceledWhileWaiting(t *testing.T) {
	in := Start("cancel-wait")
	defer in.Stop()

	release := make(chan struct{})
	cctx, cancel := context.WithCancel(ctx)
	go func() {
		<-release
		cancel()
	}()
	_, err := in.Do(cctx, func(context.Context) ([]byte, error) {
		close(release)
		time.Sleep(50 * time.Millisecond)
		return []byte("late"), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, e2.ErrTimeout)
}

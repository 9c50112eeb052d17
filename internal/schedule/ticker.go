// Package schedule runs a task repeatedly on a fixed period until stopped.
package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidPeriod is returned for a non-positive period.
var ErrInvalidPeriod = errors.New("schedule: period must be > 0")

// Ticker calls a handler every period. A tick that fires while the previous
// handler call is still running is skipped, so the handler never runs
// concurrently with itself.
type Ticker struct {
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	ran     atomic.Int64
	skipped atomic.Int64
	err     error
}

// Start begins calling fn every period until Stop is called, ctx is
// cancelled or fn returns an error. fn receives the 0-based tick number.
func Start(ctx context.Context, period time.Duration, fn func(ctx context.Context, tick int64) error) (*Ticker, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Ticker{cancel: cancel, done: make(chan struct{})}

	go t.loop(ctx, period, fn)

	return t, nil
}

func (t *Ticker) loop(ctx context.Context, period time.Duration, fn func(context.Context, int64) error) {
	defer close(t.done)
	defer t.cancel()

	tk := time.NewTicker(period)
	defer tk.Stop()

	var (
		running atomic.Bool
		wg      sync.WaitGroup
		errOnce sync.Once
	)

	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
		}

		if !running.CompareAndSwap(false, true) {
			t.skipped.Add(1)
			continue
		}

		// A handler error may have cancelled ctx just before releasing
		// running.
		if ctx.Err() != nil {
			running.Store(false)
			return
		}

		n := t.ran.Add(1) - 1

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer running.Store(false)

			if err := fn(ctx, n); err != nil {
				errOnce.Do(func() { t.err = err })
				t.cancel()
			}
		}()
	}
}

// Stop cancels the ticker and waits for a running handler to return. It
// returns the handler error that stopped the ticker, if any.
func (t *Ticker) Stop() error {
	t.once.Do(t.cancel)
	<-t.done

	return t.err
}

// Done is closed once the ticker has stopped and no handler is running.
func (t *Ticker) Done() <-chan struct{} { return t.done }

// Err returns the handler error that stopped the ticker. It is only valid
// after Done is closed.
func (t *Ticker) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Ticks returns the number of handler calls started.
func (t *Ticker) Ticks() int64 { return t.ran.Load() }

// Skipped returns the number of ticks dropped because the handler was busy.
func (t *Ticker) Skipped() int64 { return t.skipped.Load() }

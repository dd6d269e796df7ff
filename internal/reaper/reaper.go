package reaper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/miniurl/internal/shortener"
)

// DefaultInterval is how often expired aliases are swept.
const DefaultInterval = 10 * time.Second

// ErrAlreadyStarted is returned by Start when the reaper is already running.
var ErrAlreadyStarted = errors.New("reaper already started")

// Sweeper removes expired aliases and reports which codes went away.
type Sweeper interface {
	Reap(ctx context.Context) ([]shortener.Code, error)
}

// Reaper periodically sweeps expired aliases out of the store.
type Reaper struct {
	sweeper  Sweeper
	interval time.Duration
	onReap   func(ctx context.Context, codes []shortener.Code)
	onError  func(err error)
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// Option configures a Reaper.
type Option func(*Reaper)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithReapHook is called after every sweep that removed at least one code.
func WithReapHook(fn func(ctx context.Context, codes []shortener.Code)) Option {
	return func(r *Reaper) {
		r.onReap = fn
	}
}

// WithErrorHook is called when a sweep fails.
func WithErrorHook(fn func(err error)) Option {
	return func(r *Reaper) {
		r.onError = fn
	}
}

// New creates a reaper for sweeper.
func New(sweeper Sweeper, opts ...Option) *Reaper {
	r := &Reaper{
		sweeper:  sweeper,
		interval: DefaultInterval,
		onReap:   func(context.Context, []shortener.Code) {},
		onError:  func(error) {},
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Interval returns the time between sweeps.
func (r *Reaper) Interval() time.Duration {
	return r.interval
}

// Start launches the sweep loop. It may be called once.
func (r *Reaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, r.cancel = context.WithCancel(ctx)

	go r.loop(ctx)

	return nil
}

func (r *Reaper) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	codes, err := r.sweeper.Reap(ctx)
	if err != nil {
		r.onError(err)

		return
	}

	if len(codes) > 0 {
		r.onReap(ctx, codes)
	}
}

// Shutdown stops the sweep loop and waits for an in-flight sweep to finish.
// It is a no-op when the reaper was never started.
func (r *Reaper) Shutdown() error {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	<-r.done

	return nil
}

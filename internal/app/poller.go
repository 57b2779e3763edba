package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultStartupGuard = 10 * time.Second
)

// ErrStartupTimeout is reported when the first refresh outlives the startup
// guard. It matches context.DeadlineExceeded.
var ErrStartupTimeout = fmt.Errorf("initial refresh timed out: %w", context.DeadlineExceeded)

// Poller runs a refresh immediately and then on every Interval tick. Ticks do
// not wait for earlier refreshes, so cycles may overlap; ordering is left to
// the store's sequence gating.
type Poller struct {
	Interval time.Duration
	Guard    time.Duration

	Refresh   func(context.Context) error
	OnStartup func(error)
	Logger    zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// Start launches the polling loop and returns immediately. Calling Start on
// a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	if p.Interval <= 0 {
		p.Interval = defaultPollInterval
	}
	if p.Guard <= 0 {
		p.Guard = defaultStartupGuard
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	// Refreshes are not cancelled by Stop; late results are discarded by
	// the consumer instead.
	callCtx := context.WithoutCancel(ctx)

	go p.loop(loopCtx, callCtx, p.done)
}

func (p *Poller) loop(loopCtx, callCtx context.Context, done chan struct{}) {
	defer close(done)

	p.startup(loopCtx, callCtx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C:
			go p.tick(callCtx)
		}
	}
}

func (p *Poller) startup(loopCtx, callCtx context.Context) {
	result := make(chan error, 1)
	go func() {
		result <- p.Refresh(callCtx)
	}()

	guard := time.NewTimer(p.Guard)
	defer guard.Stop()

	var err error
	select {
	case err = <-result:
	case <-guard.C:
		err = ErrStartupTimeout
	case <-loopCtx.Done():
		return
	}
	if err != nil {
		p.Logger.Warn().Err(err).Msg("initial refresh failed")
	}
	if p.OnStartup != nil {
		p.OnStartup(err)
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.Logger.Debug().Err(err).Msg("poll refresh failed")
	}
}

// Stop ends the loop and waits for it to exit. In-flight refreshes keep
// running.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

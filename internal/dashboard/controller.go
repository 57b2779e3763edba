package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/logfeed"
	"github.com/five82/aurad/internal/state"
)

var (
	// ErrDisconnected is returned by Refresh when the health probe fails.
	ErrDisconnected = errors.New("backend unreachable")

	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("dashboard closed")

	// ErrUnavailable is returned for actions attempted while disconnected or busy.
	ErrUnavailable = errors.New("action unavailable")
)

const (
	successTTL = 3 * time.Second
	errorTTL   = 6 * time.Second

	defaultUpdateRefreshDelay = 2 * time.Second
	defaultCycleRefreshDelay  = time.Second
	defaultRefreshTimeout     = 10 * time.Second
)

// Banner texts shared with the UI and tests.
const (
	MsgConnecting       = "Connecting to AURA system..."
	MsgConnected        = "AURA system connected successfully"
	MsgConnectTimeout   = "Connection timeout - please check your network"
	MsgConnectFailed    = "Failed to connect to AURA system"
	MsgConnectionLost   = "Connection lost - retrying..."
	MsgDisconnected     = "Not connected to AURA system"
	MsgUpdateBusy       = "Manual update already in progress"
	MsgInvalidKey       = "Please enter a valid API key"
	MsgInvalidThreshold = "Please enter a valid positive number."
	MsgInvalidPrices    = "Please enter valid numbers for both prices."
)

// Options configures a Controller.
type Options struct {
	Backend aura.Backend
	Store   *state.Store
	Logger  zerolog.Logger

	// Delay before the follow-up refresh after a manual update and after
	// starting or stopping the automated cycle.
	UpdateRefreshDelay time.Duration
	CycleRefreshDelay  time.Duration

	// RefreshTimeout bounds each deferred refresh.
	RefreshTimeout time.Duration
}

// Controller owns the refresh algorithm and the user actions. It is the only
// writer of the store apart from the UI's banner dismissal.
type Controller struct {
	backend aura.Backend
	store   *state.Store
	log     zerolog.Logger

	updateDelay    time.Duration
	cycleDelay     time.Duration
	refreshTimeout time.Duration

	mu     sync.Mutex
	closed bool
	timers map[*time.Timer]struct{}
}

// New builds a Controller.
func New(opts Options) *Controller {
	c := &Controller{
		backend:        opts.Backend,
		store:          opts.Store,
		log:            opts.Logger,
		updateDelay:    opts.UpdateRefreshDelay,
		cycleDelay:     opts.CycleRefreshDelay,
		refreshTimeout: opts.RefreshTimeout,
		timers:         make(map[*time.Timer]struct{}),
	}
	if c.store == nil {
		c.store = &state.Store{}
	}
	if c.updateDelay <= 0 {
		c.updateDelay = defaultUpdateRefreshDelay
	}
	if c.cycleDelay <= 0 {
		c.cycleDelay = defaultCycleRefreshDelay
	}
	if c.refreshTimeout <= 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	return c
}

// Store returns the state container the controller writes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Refresh runs one poll cycle: probe health, then fetch dashboard, logs and
// status concurrently. A failed fetch leaves its slice as it was.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	seq := c.store.Begin()
	log := c.log.With().Uint64("cycle", seq).Logger()

	if _, err := c.backend.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("health probe failed")
		if c.isClosed() {
			return ErrClosed
		}
		if c.store.SetConnected(seq, false) {
			c.store.PostBanner(state.BannerWarning, MsgConnectionLost, 0)
		}
		return fmt.Errorf("%w: %w", ErrDisconnected, err)
	}
	if c.isClosed() {
		return ErrClosed
	}
	c.store.SetConnected(seq, true)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		d, err := c.backend.FetchDashboard(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("dashboard fetch failed")
			return
		}
		if !c.isClosed() && !c.store.SetDashboard(seq, d) {
			log.Debug().Msg("dropped stale dashboard result")
		}
	}()
	go func() {
		defer wg.Done()
		lines, err := c.backend.FetchLogs(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("logs fetch failed")
			return
		}
		if !c.isClosed() && !c.store.SetLogs(seq, logfeed.Reverse(lines)) {
			log.Debug().Msg("dropped stale logs result")
		}
	}()
	go func() {
		defer wg.Done()
		st, err := c.backend.FetchStatus(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("status fetch failed")
			return
		}
		if !c.isClosed() && !c.store.SetStatus(seq, st) {
			log.Debug().Msg("dropped stale status result")
		}
	}()
	wg.Wait()

	if c.isClosed() {
		return ErrClosed
	}
	if c.store.IsCurrent(seq) {
		c.store.ClearAlerts()
	}
	log.Debug().Msg("refresh cycle complete")
	return nil
}

// Connecting posts the banner shown while the first cycle runs.
func (c *Controller) Connecting() {
	c.store.PostBanner(state.BannerInfo, MsgConnecting, 0)
}

// Startup reports the outcome of the eager first cycle.
func (c *Controller) Startup(err error) {
	if c.isClosed() {
		return
	}
	switch {
	case err == nil:
		c.log.Info().Msg("connected to backend")
		c.store.PostBanner(state.BannerSuccess, MsgConnected, successTTL)
	case errors.Is(err, context.DeadlineExceeded):
		c.log.Error().Err(err).Msg("startup refresh timed out")
		c.store.SetConnected(c.store.Begin(), false)
		c.store.PostBanner(state.BannerError, MsgConnectTimeout, 0)
	default:
		c.log.Error().Err(err).Msg("startup refresh failed")
		c.store.SetConnected(c.store.Begin(), false)
		c.store.PostBanner(state.BannerError, MsgConnectFailed, 0)
	}
}

// TriggerUpdate asks the backend for an immediate update cycle and refreshes
// shortly after.
func (c *Controller) TriggerUpdate(ctx context.Context) error {
	if err := c.guardControls(); err != nil {
		return err
	}

	if !c.store.AcquireBusy() {
		c.store.PostBanner(state.BannerWarning, MsgUpdateBusy, errorTTL)
		return ErrUnavailable
	}
	defer c.store.SetBusy(false)

	return c.run(ctx, action{
		op:       aura.OpTriggerUpdate,
		progress: "Triggering manual update...",
		success:  "Manual update triggered successfully",
		failure:  "Failed to trigger manual update",
		followUp: c.updateDelay,
		call: func(ctx context.Context) error {
			_, err := c.backend.TriggerUpdate(ctx)
			return err
		},
	})
}

// ClearLogs empties the backend log buffer and the local log slice.
func (c *Controller) ClearLogs(ctx context.Context) error {
	return c.run(ctx, action{
		op:       aura.OpClearLogs,
		progress: "Clearing logs...",
		success:  "Logs cleared successfully",
		failure:  "Failed to clear logs",
		call:     c.backend.ClearLogs,
		onSuccess: func() {
			c.store.ClearLogs()
		},
	})
}

// SetAPIKey stores a new upstream API key. Blank keys are rejected locally
// and never reach the backend.
func (c *Controller) SetAPIKey(ctx context.Context, key string) error {
	if isBlank(key) {
		c.store.PostBanner(state.BannerError, MsgInvalidKey, errorTTL)
		return aura.ErrEmptyKey
	}
	return c.run(ctx, action{
		op:       aura.OpSetAPIKey,
		progress: "Updating API key...",
		success:  "API key updated successfully",
		failure:  "Failed to set API key",
		call: func(ctx context.Context) error {
			return c.backend.SetAPIKey(ctx, key)
		},
	})
}

// StartCycle enables the automated cycle and refreshes shortly after.
func (c *Controller) StartCycle(ctx context.Context) error {
	if err := c.guardControls(); err != nil {
		return err
	}
	return c.run(ctx, action{
		op:       aura.OpStartCycle,
		progress: "Starting automated cycle...",
		success:  "Automated cycle started",
		failure:  "Failed to start cycle",
		followUp: c.cycleDelay,
		call: func(ctx context.Context) error {
			_, err := c.backend.StartCycle(ctx)
			return err
		},
	})
}

// StopCycle disables the automated cycle and refreshes shortly after.
func (c *Controller) StopCycle(ctx context.Context) error {
	if err := c.guardControls(); err != nil {
		return err
	}
	return c.run(ctx, action{
		op:       aura.OpStopCycle,
		progress: "Stopping automated cycle...",
		success:  "Automated cycle stopped",
		failure:  "Failed to stop cycle",
		followUp: c.cycleDelay,
		call: func(ctx context.Context) error {
			_, err := c.backend.StopCycle(ctx)
			return err
		},
	})
}

// LoadThreshold reads the governance threshold into the store.
func (c *Controller) LoadThreshold(ctx context.Context) error {
	v, err := c.backend.FetchThreshold(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("threshold fetch failed")
		return err
	}
	if !c.isClosed() {
		c.store.SetThreshold(v)
	}
	return nil
}

// SetThreshold validates raw and submits it as the governance threshold.
func (c *Controller) SetThreshold(ctx context.Context, raw string) error {
	value, err := ParseThreshold(raw)
	if err != nil {
		c.store.PostBanner(state.BannerError, MsgInvalidThreshold, errorTTL)
		return err
	}
	return c.run(ctx, action{
		op:       aura.OpSetThreshold,
		progress: "Updating threshold...",
		success:  "Threshold updated",
		failure:  "Failed to update threshold",
		call: func(ctx context.Context) error {
			return c.backend.SetThreshold(ctx, value)
		},
		onSuccess: func() {
			c.store.SetThreshold(value)
		},
	})
}

// Simulate validates both prices and records the backend's decision.
func (c *Controller) Simulate(ctx context.Context, ethRaw, bnbRaw string) error {
	eth, bnb, err := ParsePrices(ethRaw, bnbRaw)
	if err != nil {
		c.store.PostBanner(state.BannerError, MsgInvalidPrices, errorTTL)
		return err
	}
	var decision *aura.Decision
	return c.run(ctx, action{
		op:       aura.OpSimulate,
		progress: "Simulating decision...",
		success:  "Simulation complete",
		failure:  "Failed to simulate decision",
		call: func(ctx context.Context) error {
			d, err := c.backend.Simulate(ctx, eth, bnb)
			decision = d
			return err
		},
		onSuccess: func() {
			c.store.SetDecision(decision)
		},
	})
}

// Notice posts a banner for an outcome the UI produced itself, such as a log
// export. Errors stay up longer than other kinds.
func (c *Controller) Notice(kind state.BannerKind, message string) {
	ttl := successTTL
	if kind == state.BannerError || kind == state.BannerWarning {
		ttl = errorTTL
	}
	c.store.PostBanner(kind, message, ttl)
}

// guardControls rejects update and cycle actions while disconnected or while
// a manual update is running.
func (c *Controller) guardControls() error {
	snap := c.store.Snapshot()
	if !snap.Connected {
		c.store.PostBanner(state.BannerWarning, MsgDisconnected, errorTTL)
		return ErrUnavailable
	}
	if snap.Busy {
		c.store.PostBanner(state.BannerWarning, MsgUpdateBusy, errorTTL)
		return ErrUnavailable
	}
	return nil
}

// action describes one side-effecting user operation.
type action struct {
	op        aura.Op
	progress  string
	success   string
	failure   string
	followUp  time.Duration
	call      func(context.Context) error
	onSuccess func()
}

func (c *Controller) run(ctx context.Context, a action) error {
	if c.isClosed() {
		return ErrClosed
	}
	c.store.PostBanner(state.BannerInfo, a.progress, 0)

	err := a.call(ctx)
	if c.isClosed() {
		return ErrClosed
	}
	if err != nil {
		c.log.Error().Err(err).Str("op", string(a.op)).Msg("action failed")
		msg := a.failure
		if reason, ok := aura.Reason(err); ok {
			msg = a.failure + ": " + reason
		}
		c.store.PostBanner(state.BannerError, msg, errorTTL)
		return err
	}

	c.log.Info().Str("op", string(a.op)).Msg("action succeeded")
	if a.onSuccess != nil {
		a.onSuccess()
	}
	c.store.PostBanner(state.BannerSuccess, a.success, successTTL)
	if a.followUp > 0 {
		c.scheduleRefresh(a.followUp)
	}
	return nil
}

// scheduleRefresh runs one Refresh after delay unless the controller is
// closed first.
func (c *Controller) scheduleRefresh(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		c.mu.Lock()
		delete(c.timers, t)
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
		defer cancel()
		if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
			c.log.Warn().Err(err).Msg("deferred refresh failed")
		}
	})
	c.timers[t] = struct{}{}
}

// Pending returns the number of deferred refreshes not yet started.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Close cancels pending deferred refreshes. In-flight calls are not
// interrupted; their results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

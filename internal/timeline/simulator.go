package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

const (
	RouteStepPct        = 3
	MinLeadTimeHours    = 1
	MaxLeadTimeHours    = 72
	DefaultCountdownSec = 11*secondsPerDay + 14*secondsPerHour + 32*60
	DefaultWindow       = 14 * 24 * time.Hour
)

var (
	ErrLeadTimeOutOfRange   = errors.New("warning lead time out of range")
	ErrEvacuationOutOfRange = errors.New("evacuation start out of range")
)

// Publisher receives a snapshot after every state change. Publish is called
// with the simulator locked, so snapshots arrive in transition order; it must
// not block or call back into the simulator.
type Publisher interface {
	Publish(state models.TimelineState)
}

type Options struct {
	CountdownSeconds     int64
	Window               time.Duration
	WarningLeadTimeHours float64
	EvacuationStartHours float64
	CountdownInterval    time.Duration
	RouteInterval        time.Duration
	Publisher            Publisher
}

func DefaultOptions() Options {
	return Options{
		CountdownSeconds:     DefaultCountdownSec,
		Window:               DefaultWindow,
		WarningLeadTimeHours: 8,
		EvacuationStartHours: 6,
		CountdownInterval:    time.Second,
		RouteInterval:        120 * time.Millisecond,
	}
}

// Simulator owns one TimelineState. All mutation goes through its methods,
// which serialize on mu, so ticks for one instance never interleave.
type Simulator struct {
	mu        sync.Mutex
	state     models.TimelineState
	window    time.Duration
	publisher Publisher

	countdownInterval time.Duration
	routeInterval     time.Duration

	done       chan struct{}
	cancelOnce sync.Once
	wg         sync.WaitGroup
}

func NewSimulator(opts Options) (*Simulator, error) {
	if opts.CountdownSeconds < 0 {
		return nil, fmt.Errorf("countdown must be non-negative, got %d", opts.CountdownSeconds)
	}
	if err := checkLeadTime(opts.WarningLeadTimeHours); err != nil {
		return nil, err
	}
	if err := checkEvacuationStart(opts.EvacuationStartHours, opts.WarningLeadTimeHours); err != nil {
		return nil, err
	}
	if opts.CountdownInterval <= 0 || opts.RouteInterval <= 0 {
		return nil, fmt.Errorf("tick intervals must be positive")
	}

	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}

	phase := models.CountdownActive
	if opts.CountdownSeconds == 0 {
		phase = models.CountdownExpired
	}

	return &Simulator{
		state: models.TimelineState{
			CountdownSeconds:     opts.CountdownSeconds,
			CountdownPhase:       phase,
			WarningLeadTimeHours: opts.WarningLeadTimeHours,
			EvacuationStartHours: opts.EvacuationStartHours,
			RoutePhase:           models.RouteIdle,
		},
		window:            opts.Window,
		publisher:         opts.Publisher,
		countdownInterval: opts.CountdownInterval,
		routeInterval:     opts.RouteInterval,
		done:              make(chan struct{}),
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() models.TimelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TickCountdown advances the countdown by one second. It reports whether
// the state changed; an expired or cancelled countdown never changes.
func (s *Simulator) TickCountdown() bool {
	return s.mutate(func(st *models.TimelineState) bool {
		if st.CountdownPhase == models.CountdownExpired {
			return false
		}
		st.CountdownSeconds = max(0, st.CountdownSeconds-1)
		if st.CountdownSeconds == 0 {
			st.CountdownPhase = models.CountdownExpired
		}
		return true
	})
}

// StartRoutes begins route computation from Idle or Complete, resetting
// progress to zero. It does nothing while a computation is running.
func (s *Simulator) StartRoutes() bool {
	return s.mutate(func(st *models.TimelineState) bool {
		if st.RoutePhase == models.RouteRunning {
			return false
		}
		st.RoutePhase = models.RouteRunning
		st.RouteProgressPct = 0
		return true
	})
}

// TickRoutes advances a running route computation by RouteStepPct, capped
// at 100. The tick after progress reaches 100 completes the run.
func (s *Simulator) TickRoutes() bool {
	return s.mutate(func(st *models.TimelineState) bool {
		if st.RoutePhase != models.RouteRunning {
			return false
		}
		if st.RouteProgressPct >= 100 {
			st.RoutePhase = models.RouteComplete
			return true
		}
		st.RouteProgressPct = min(100, st.RouteProgressPct+RouteStepPct)
		return true
	})
}

func (s *Simulator) SetWarningLeadTime(hours float64) error {
	if err := checkLeadTime(hours); err != nil {
		return err
	}
	var err error
	s.mutate(func(st *models.TimelineState) bool {
		if err = checkEvacuationStart(st.EvacuationStartHours, hours); err != nil {
			return false
		}
		st.WarningLeadTimeHours = hours
		return true
	})
	return err
}

func (s *Simulator) SetEvacuationStart(hours float64) error {
	var err error
	s.mutate(func(st *models.TimelineState) bool {
		if err = checkEvacuationStart(hours, st.WarningLeadTimeHours); err != nil {
			return false
		}
		st.EvacuationStartHours = hours
		return true
	})
	return err
}

// Projection evaluates Project at the simulator's current lead time.
func (s *Simulator) Projection() models.OutcomeProjection {
	p, _ := Project(s.Snapshot().WarningLeadTimeHours)
	return p
}

// Cancel stops the simulator. It is safe to call more than once; every tick
// or setter after the first call is a no-op.
func (s *Simulator) Cancel() {
	s.cancelOnce.Do(func() {
		s.mu.Lock()
		s.state.Cancelled = true
		s.publishLocked()
		s.mu.Unlock()
		close(s.done)
	})
}

// Start drives both clocks on a background goroutine until ctx is done or
// Cancel is called.
func (s *Simulator) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the simulator and waits for the clock goroutine to exit.
func (s *Simulator) Stop() {
	s.Cancel()
	s.wg.Wait()
}

func (s *Simulator) run(ctx context.Context) {
	defer s.wg.Done()

	slog.Info("starting timeline", "countdown_interval", s.countdownInterval, "route_interval", s.routeInterval)

	countdown := time.NewTicker(s.countdownInterval)
	defer countdown.Stop()
	routes := time.NewTicker(s.routeInterval)
	defer routes.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("timeline shutting down")
			s.Cancel()
			return
		case <-s.done:
			slog.Info("timeline cancelled")
			return
		case <-countdown.C:
			s.TickCountdown()
		case <-routes.C:
			s.TickRoutes()
		}
	}
}

func (s *Simulator) mutate(fn func(st *models.TimelineState) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Cancelled || !fn(&s.state) {
		return false
	}
	s.publishLocked()
	return true
}

func (s *Simulator) publishLocked() {
	if s.publisher != nil {
		s.publisher.Publish(s.snapshotLocked())
	}
}

func (s *Simulator) snapshotLocked() models.TimelineState {
	snap := s.state
	snap.CountdownDisplay = FormatCountdown(snap.CountdownSeconds)
	snap.ImpactWindowPct = WindowProgress(snap.CountdownSeconds, s.window)
	return snap
}

func checkLeadTime(hours float64) error {
	if !(hours >= MinLeadTimeHours && hours <= MaxLeadTimeHours) {
		return fmt.Errorf("%w: %v not in [%d, %d]", ErrLeadTimeOutOfRange, hours, MinLeadTimeHours, MaxLeadTimeHours)
	}
	return nil
}

func checkEvacuationStart(hours, leadTime float64) error {
	if !(hours >= 0 && hours <= leadTime) {
		return fmt.Errorf("%w: %v not in [0, %v]", ErrEvacuationOutOfRange, hours, leadTime)
	}
	return nil
}

// Publishers fans one snapshot out to several publishers in order.
type Publishers []Publisher

func (ps Publishers) Publish(st models.TimelineState) {
	for _, p := range ps {
		p.Publish(st)
	}
}

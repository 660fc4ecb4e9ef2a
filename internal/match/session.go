package match

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/logger"
	"github.com/spigell/nearhire/internal/roster"
)

// Worker is the profile bound to a session once it reaches Found.
type Worker struct {
	Name       string
	Trade      string
	DistanceKm float64
	ETA        time.Duration
	Rating     float64
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	ID       string
	Status   Status
	Skill    roster.Category
	Worker   *Worker
	OpenedAt time.Time
}

// Event reports a single transition to observers.
type Event struct {
	Snapshot
	From Status
}

type Option func(*Session)

func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers a callback for every transition. Callbacks run
// outside the session lock, one at a time and in transition order.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// Session is a simulated instant-hire negotiation. Only the most recent Open
// may drive transitions: every Open and Close bumps the generation and phase
// callbacks carrying an older generation are dropped.
type Session struct {
	mu        sync.Mutex
	clock     Clock
	logger    *zap.Logger
	observers []func(Event)

	state      Snapshot
	generation uint64
	timer      Timer

	pending     []Event
	dispatching bool
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		clock:  realClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a negotiation for skill. An active negotiation is reset first.
func (s *Session) Open(skill roster.Category) Snapshot {
	s.mu.Lock()
	if s.state.Status != Idle {
		s.resetLocked()
	}

	s.generation++
	gen := s.generation
	s.state = Snapshot{
		ID:       uuid.NewString(),
		Skill:    skill,
		OpenedAt: s.clock.Now(),
	}
	s.transitionLocked(Searching)
	s.timer = s.clock.AfterFunc(SearchingPhase, func() { s.fire(gen, Searching) })

	s.log().Debug("match session opened")
	snap := s.state
	s.mu.Unlock()

	s.flush()
	return snap
}

// Close returns the session to Idle from any state and discards pending phases.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state.Status != Idle {
		s.log().Debug("match session closed", zap.Stringer("status", s.state.Status))
		s.resetLocked()
	}
	s.mu.Unlock()

	s.flush()
}

// Cancel aborts a pending negotiation. It does nothing once the session is
// Idle or Found.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	ok := s.state.Status.Pending()
	if ok {
		s.log().Debug("match session cancelled", zap.Stringer("status", s.state.Status))
		s.resetLocked()
	}
	s.mu.Unlock()

	s.flush()
	return ok
}

func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if snap.Worker != nil {
		w := *snap.Worker
		snap.Worker = &w
	}
	return snap
}

func (s *Session) fire(gen uint64, expect Status) {
	s.mu.Lock()
	if gen != s.generation || s.state.Status != expect {
		s.log().Debug("stale phase timer ignored",
			zap.Uint64("generation", gen),
			zap.Stringer("expected", expect),
		)
		s.mu.Unlock()
		return
	}

	switch expect {
	case Searching:
		s.transitionLocked(Connecting)
		s.timer = s.clock.AfterFunc(ConnectingPhase, func() { s.fire(gen, Connecting) })
	case Connecting:
		s.timer = nil
		s.state.Worker = placeholder(s.state.Skill)
		s.transitionLocked(Found)
		s.log().Info("match found",
			zap.String("worker", s.state.Worker.Name),
			zap.Duration("elapsed", s.clock.Now().Sub(s.state.OpenedAt)),
		)
	}
	s.mu.Unlock()

	s.flush()
}

// resetLocked invalidates outstanding timers and moves the session to Idle,
// passing through Cancelled when a phase was still pending.
func (s *Session) resetLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.state.Status.Pending() {
		s.transitionLocked(Cancelled)
	}
	s.state.Worker = nil
	s.transitionLocked(Idle)
}

func (s *Session) transitionLocked(next Status) {
	from := s.state.Status
	s.state.Status = next
	if len(s.observers) == 0 {
		return
	}

	snap := s.state
	if snap.Worker != nil {
		w := *snap.Worker
		snap.Worker = &w
	}
	s.pending = append(s.pending, Event{Snapshot: snap, From: from})
}

// flush delivers queued events. A goroutine already flushing drains events
// queued by others so observers never run concurrently or out of order.
func (s *Session) flush() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		observers := s.observers
		s.mu.Unlock()

		for _, ev := range batch {
			for _, fn := range observers {
				fn(ev)
			}
		}

		s.mu.Lock()
	}
	s.dispatching = false
	s.mu.Unlock()
}

func (s *Session) log() *zap.Logger {
	return logger.WithSession(s.logger, s.state.ID, s.state.Skill.String())
}

func placeholder(skill roster.Category) *Worker {
	trade := skill.String()
	if skill == roster.Wildcard || skill == "" {
		trade = "Worker"
	}
	return &Worker{
		Name:       "Raju Kumar",
		Trade:      trade,
		DistanceKm: 0.8,
		ETA:        5 * time.Minute,
		Rating:     4.8,
	}
}

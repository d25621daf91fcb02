// Package state owns the single AppState aggregate: it applies named actions,
// rehydrates the aggregate at startup and persists it after every change.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/logger"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/onboarding"
	"github.com/julianstephens/korastor/internal/slipup"
	"github.com/julianstephens/korastor/internal/storage"
)

var (
	ErrNotStarted = errors.New("state store not started")
	ErrClosed     = errors.New("state store closed")
)

// Store holds the aggregate in memory. Mutations go through Dispatch, which
// waits for the startup load so a persist can never overwrite stored state
// with pre-load defaults. Persists happen on one writer goroutine that
// coalesces to the newest state; failures are logged and dropped.
type Store struct {
	provider storage.Provider
	log      *log.Logger
	timeout  time.Duration
	idgen    slipup.IDGenerator

	mu    sync.Mutex
	state models.AppState

	started   atomic.Bool
	closed    atomic.Bool
	loaded    chan struct{}
	loadErr   error
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	pmu          sync.Mutex
	pending      *models.AppState
	healthDirty  bool
	persistCh    chan struct{}
	flushCh      chan chan struct{}
	persistCount atomic.Int64
}

// Option configures a Store
type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTimeout bounds each storage call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithIDGenerator sets how slip-up IDs are made.
func WithIDGenerator(g slipup.IDGenerator) Option {
	return func(s *Store) { s.idgen = g }
}

// New returns a store seeded with DefaultAppState. Call Start before
// dispatching.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider:  provider,
		timeout:   constants.StorageOpTimeout,
		state:     models.DefaultAppState(),
		loaded:    make(chan struct{}),
		done:      make(chan struct{}),
		persistCh: make(chan struct{}, 1),
		flushCh:   make(chan chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("state")
	}
	return s
}

// Start begins the asynchronous load and the persist writer. Calling it
// more than once has no effect.
func (s *Store) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(2)
	go s.load(ctx)
	go s.writer()
}

func (s *Store) load(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.loaded)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	blob, err := s.provider.Get(ctx, constants.AppStateKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("No saved state, starting fresh")
		return
	}
	if err != nil {
		s.loadErr = err
		s.log.Warn("Failed to load state, using defaults", "error", err)
		return
	}

	loaded, err := Decode(blob)
	if err != nil {
		s.loadErr = err
		s.log.Warn("Saved state is unreadable, using defaults", "error", err)
		return
	}

	s.mu.Lock()
	s.state = loaded
	s.mu.Unlock()
	s.log.Debug("State loaded", "bytes", len(blob))
}

// Ready is closed once the startup load has finished, whatever its outcome.
func (s *Store) Ready() <-chan struct{} {
	return s.loaded
}

// LoadErr returns why the startup load fell back to defaults, nil if it did
// not. Only meaningful after Ready is closed.
func (s *Store) LoadErr() error {
	select {
	case <-s.loaded:
		return s.loadErr
	default:
		return nil
	}
}

// State returns a deep copy of the current aggregate.
func (s *Store) State() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Snapshot computes every derived value from the current aggregate at now.
func (s *Store) Snapshot(now time.Time) metrics.Snapshot {
	return metrics.Compute(s.State(), now)
}

// Dispatch applies action once the startup load has completed and schedules
// a persist. Storage failures never surface here.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	if !s.started.Load() {
		return ErrNotStarted
	}
	select {
	case <-s.loaded:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	next, err := Reduce(s.state, action)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	healthChanged := !slices.Equal(s.state.HealthSystems, next.HealthSystems)
	s.state = next
	// enqueue under mu so pending always holds the newest state
	s.enqueue(next.Clone(), healthChanged)
	s.mu.Unlock()
	return nil
}

func (s *Store) enqueue(snapshot models.AppState, healthChanged bool) {
	s.pmu.Lock()
	s.pending = &snapshot
	s.healthDirty = s.healthDirty || healthChanged
	s.pmu.Unlock()

	select {
	case s.persistCh <- struct{}{}:
	default:
	}
}

func (s *Store) writer() {
	defer s.wg.Done()
	for {
		select {
		case <-s.persistCh:
			s.persist()
		case ack := <-s.flushCh:
			s.persist()
			close(ack)
		case <-s.done:
			s.persist()
			return
		}
	}
}

func (s *Store) persist() {
	s.pmu.Lock()
	pending, healthDirty := s.pending, s.healthDirty
	s.pending, s.healthDirty = nil, false
	s.pmu.Unlock()

	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	blob, err := Encode(*pending)
	if err != nil {
		s.log.Error("Failed to encode state", "error", err)
		return
	}
	if err := s.provider.Set(ctx, constants.AppStateKey, blob); err != nil {
		s.log.Warn("Failed to persist state", "error", err)
		return
	}
	s.persistCount.Add(1)

	if healthDirty {
		health, err := json.Marshal(pending.HealthSystems)
		if err == nil {
			err = s.provider.Set(ctx, constants.HealthSystemsKey, health)
		}
		if err != nil {
			s.log.Warn("Failed to persist health systems", "error", err)
		}
	}
}

// Flush blocks until every dispatched change has been handed to storage.
func (s *Store) Flush(ctx context.Context) error {
	if !s.started.Load() {
		return ErrNotStarted
	}
	ack := make(chan struct{})
	select {
	case s.flushCh <- ack:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Persisted reports how many state blobs were written successfully.
func (s *Store) Persisted() int64 {
	return s.persistCount.Load()
}

// Close flushes the pending persist and stops the writer. The provider is
// left open for its owner to close.
func (s *Store) Close(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
	})

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("state store did not shut down: %w", ctx.Err())
	}
}

// CompleteOnboarding starts the journey from a complete draft: the profile
// is set with startDate=now and the ledger is reset. The caller resets the
// draft afterwards.
func (s *Store) CompleteOnboarding(ctx context.Context, draft *onboarding.Draft, now time.Time) (models.UserProfile, error) {
	profile, err := draft.Build(now.UnixMilli())
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := s.Dispatch(ctx, SetUserProfile{Profile: &profile}); err != nil {
		return models.UserProfile{}, err
	}
	if err := s.Dispatch(ctx, SetStreakData{StreakData: models.NewStreakData()}); err != nil {
		return models.UserProfile{}, err
	}
	return profile, s.RefreshDerived(ctx, now)
}

// LogSlipUp records a relapse at now.
func (s *Store) LogSlipUp(ctx context.Context, trigger models.TriggerType, emotion models.EmotionType, now time.Time) (models.SlipUp, error) {
	slip, err := slipup.New(trigger, emotion, now.UnixMilli(), s.idgen)
	if err != nil {
		return models.SlipUp{}, err
	}
	if err := s.Dispatch(ctx, RecordSlipUp{SlipUp: slip}); err != nil {
		return models.SlipUp{}, err
	}
	return slip, s.RefreshDerived(ctx, now)
}

// AwardCravingPoint credits one point for a completed craving task and
// returns the new balance as of now.
func (s *Store) AwardCravingPoint(ctx context.Context, now time.Time) (models.KoraPoints, error) {
	day := now.Format(constants.DateFormat)
	if err := s.Dispatch(ctx, AwardPoints{N: constants.CravingPointsAward, Day: day}); err != nil {
		return models.KoraPoints{}, err
	}
	return s.State().KoraPoints.ForDay(day), nil
}

// RefreshDerived overwrites the cached totals and health snapshot with
// values computed at now.
func (s *Store) RefreshDerived(ctx context.Context, now time.Time) error {
	return s.Dispatch(ctx, Recompute{Now: now})
}

// Reset clears the journey and returns to onboarding.
func (s *Store) Reset(ctx context.Context) error {
	return s.Dispatch(ctx, ResetJourney{})
}

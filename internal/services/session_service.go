package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/vytor/econgraph/internal/deck"
	"github.com/vytor/econgraph/internal/errors"
	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
	"github.com/vytor/econgraph/internal/session"
)

// StatusStore is the shared mastery store sessions write through to.
type StatusStore interface {
	session.MasteryStore
	All() models.StatusMap
	Reset(ctx context.Context) error
	Summary(ids []int) models.MasterySummary
}

// SessionService handles study sessions for many learners over one deck.
type SessionService interface {
	// Ensure returns id when it names a live session, otherwise starts a new
	// session and returns its id.
	Ensure(ctx context.Context, id string) (string, bool)
	View(ctx context.Context, id string) (models.SessionView, error)

	Next(ctx context.Context, id string) (models.SessionView, error)
	Previous(ctx context.Context, id string) (models.SessionView, error)
	JumpTo(ctx context.Context, id string, index int) (models.SessionView, error)
	Flip(ctx context.Context, id string) (models.SessionView, error)
	MarkMastered(ctx context.Context, id string) (models.SessionView, error)
	MarkNeedsReview(ctx context.Context, id string) (models.SessionView, error)
	SetDrawing(ctx context.Context, id string, has bool) (models.SessionView, error)
	AdvanceStep(ctx context.Context, id string) (models.SessionView, error)
	ResetSteps(ctx context.Context, id string) (models.SessionView, error)

	Deck(ctx context.Context) []models.DeckEntry
	Statuses(ctx context.Context) (models.StatusMap, models.MasterySummary)
	ResetStatuses(ctx context.Context) error

	// Sweep evicts sessions idle longer than the TTL and returns how many
	// were removed.
	Sweep(ctx context.Context) int
	StartSweeper(every time.Duration) error
	StopSweeper()
	Len() int
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *session.Session
	lastSeen time.Time
}

type sessionService struct {
	deck  *deck.Deck
	store StatusStore
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	scheduler *gocron.Scheduler
}

// NewSessionService creates a SessionService. A non-positive ttl disables
// eviction.
func NewSessionService(d *deck.Deck, store StatusStore, ttl time.Duration) SessionService {
	return &sessionService{
		deck:     d,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *sessionService) Ensure(ctx context.Context, id string) (string, bool) {
	log := logger.FromContext(ctx)

	if id != "" && s.touch(id) {
		return id, false
	}

	id = uuid.NewString()
	e := &sessionEntry{session: session.New(s.deck, s.store), lastSeen: s.now()}

	s.mu.Lock()
	s.sessions[id] = e
	n := len(s.sessions)
	s.mu.Unlock()

	log.WithField("session_id", id).Info("session started (%d active)", n)
	return id, true
}

// touch refreshes the session's last-seen time. The read lock is held
// until the refresh lands so a concurrent Sweep cannot evict it first.
func (s *sessionService) touch(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return false
	}
	e.mu.Lock()
	e.lastSeen = s.now()
	e.mu.Unlock()
	return true
}

// do runs fn on the session under its lock and returns the resulting view.
// The view is returned even when fn fails so callers can show the state the
// failure left behind.
func (s *sessionService) do(ctx context.Context, id string, action string, fn func(*session.Session) error) (models.SessionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": id,
		"action":     action,
	})
	log.Debug("applying session action")

	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		log.Warn("session not found")
		return models.SessionView{}, errors.NewNotFoundError("session", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	var err error
	if fn != nil {
		err = fn(e.session)
	}
	v := e.session.View()
	v.SessionID = id
	if err != nil {
		log.Debug("session action rejected: %v", err)
	}
	return v, err
}

func (s *sessionService) View(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "view", nil)
}

func (s *sessionService) Next(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "next", func(ss *session.Session) error {
		ss.Next()
		return nil
	})
}

func (s *sessionService) Previous(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "previous", func(ss *session.Session) error {
		ss.Previous()
		return nil
	})
}

func (s *sessionService) JumpTo(ctx context.Context, id string, index int) (models.SessionView, error) {
	return s.do(ctx, id, "jump", func(ss *session.Session) error {
		return ss.JumpTo(index)
	})
}

func (s *sessionService) Flip(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "flip", func(ss *session.Session) error {
		ss.Flip()
		return nil
	})
}

func (s *sessionService) MarkMastered(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "mastered", func(ss *session.Session) error {
		_, err := ss.MarkMastered(ctx)
		return err
	})
}

func (s *sessionService) MarkNeedsReview(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "needs-review", func(ss *session.Session) error {
		_, err := ss.MarkNeedsReview(ctx)
		return err
	})
}

func (s *sessionService) SetDrawing(ctx context.Context, id string, has bool) (models.SessionView, error) {
	return s.do(ctx, id, "drawing", func(ss *session.Session) error {
		ss.SetDrawing(has)
		return nil
	})
}

func (s *sessionService) AdvanceStep(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "steps-advance", func(ss *session.Session) error {
		ss.AdvanceStep()
		return nil
	})
}

func (s *sessionService) ResetSteps(ctx context.Context, id string) (models.SessionView, error) {
	return s.do(ctx, id, "steps-reset", func(ss *session.Session) error {
		ss.ResetSteps()
		return nil
	})
}

func (s *sessionService) Deck(ctx context.Context) []models.DeckEntry {
	logger.FromContext(ctx).Debug("listing deck: %d graphs", s.deck.Len())

	graphs := s.deck.Graphs()
	entries := make([]models.DeckEntry, len(graphs))
	for i, g := range graphs {
		entries[i] = models.DeckEntry{
			Index:    i,
			ID:       g.ID,
			Title:    g.Title,
			Mastery:  s.store.Get(g.ID),
			HasStudy: g.Study != nil && len(g.Study.Steps) > 0,
		}
	}
	return entries
}

func (s *sessionService) Statuses(ctx context.Context) (models.StatusMap, models.MasterySummary) {
	logger.FromContext(ctx).Debug("listing statuses")
	return s.store.All(), s.store.Summary(s.deck.IDs())
}

func (s *sessionService) ResetStatuses(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("resetting all statuses")
	if err := s.store.Reset(ctx); err != nil {
		log.Error("failed to reset statuses: %v", err)
		return err
	}
	return nil
}

func (s *sessionService) Sweep(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.FromContext(ctx).WithPrefix("session-sweeper").Info("evicted %d idle sessions, %d remain", evicted, len(s.sessions))
	}
	return evicted
}

func (s *sessionService) StartSweeper(every time.Duration) error {
	if every <= 0 || s.ttl <= 0 {
		logger.Default().WithPrefix("session-sweeper").Info("idle session sweep disabled")
		return nil
	}
	s.scheduler = gocron.NewScheduler(time.UTC)
	if _, err := s.scheduler.Every(every).Do(func() {
		s.Sweep(context.Background())
	}); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Default().WithPrefix("session-sweeper").Info("sweeping idle sessions every %v (ttl %v)", every, s.ttl)
	return nil
}

func (s *sessionService) StopSweeper() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *sessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Package status keeps the learner's per-card mastery decisions and persists
// them as a single named record.
package status

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
	"github.com/vytor/econgraph/internal/repository"
)

// DefaultRecordName is the record holding the serialized StatusMap.
const DefaultRecordName = "graphCardStatuses"

// ErrInvalidEntry is returned by Set for a non-positive card id or an
// undeclared mastery value.
var ErrInvalidEntry = errors.New("status: invalid entry")

// PersistenceReadError describes a stored record that could not be read or
// decoded. Store recovers from it by starting empty.
type PersistenceReadError struct {
	Record string
	Err    error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read status record %q: %v", e.Record, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }

// PersistenceWriteError is returned when a mastery decision could not be
// saved. The in-memory value is kept.
type PersistenceWriteError struct {
	CardID int
	Err    error
}

func (e *PersistenceWriteError) Error() string {
	if e.CardID == 0 {
		return fmt.Sprintf("write status record: %v", e.Err)
	}
	return fmt.Sprintf("write status for card %d: %v", e.CardID, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// Store is the durable card id → mastery mapping. Writes go through to the
// repository before Set returns.
type Store struct {
	mu       sync.Mutex
	repo     repository.RecordRepository
	name     string
	statuses models.StatusMap
}

// NewStore creates an empty store over repo. Call LoadAll to hydrate it.
func NewStore(repo repository.RecordRepository, name string) *Store {
	if name == "" {
		name = DefaultRecordName
	}
	return &Store{repo: repo, name: name, statuses: models.StatusMap{}}
}

// LoadAll reads the persisted map, replacing the in-memory one. A missing
// record yields an empty map; an unreadable one is logged and also yields an
// empty map.
func (s *Store) LoadAll(ctx context.Context) models.StatusMap {
	log := logger.FromContext(ctx).WithPrefix("status_store")

	m, err := s.read(ctx)
	if err != nil {
		log.Warn("discarding unreadable statuses: %v", err)
		m = models.StatusMap{}
	}

	s.mu.Lock()
	s.statuses = m
	s.mu.Unlock()

	log.Info("statuses loaded: %d entries", len(m))
	return m.Clone()
}

func (s *Store) read(ctx context.Context) (models.StatusMap, error) {
	rec, err := s.repo.Get(ctx, s.name)
	if err != nil {
		return nil, &PersistenceReadError{Record: s.name, Err: err}
	}
	if rec == nil {
		return models.StatusMap{}, nil
	}
	m, err := Decode(rec.Value)
	if err != nil {
		return nil, &PersistenceReadError{Record: s.name, Err: err}
	}
	return m, nil
}

// Get returns the mastery for cardID; Unset when none was recorded.
func (s *Store) Get(cardID int) models.Mastery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses.Get(cardID)
}

// All returns a copy of the current map.
func (s *Store) All() models.StatusMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses.Clone()
}

// Set records m for cardID and persists the whole map. Unset clears the
// entry. An invalid id or mastery is rejected with ErrInvalidEntry and
// changes nothing. When the write fails the in-memory value is kept and a
// *PersistenceWriteError is returned.
func (s *Store) Set(ctx context.Context, cardID int, m models.Mastery) error {
	log := logger.FromContext(ctx).WithPrefix("status_store").WithFields(map[string]any{
		"card_id": cardID,
		"mastery": m,
	})

	if cardID <= 0 || !m.Valid() {
		log.Warn("rejecting invalid status entry")
		return fmt.Errorf("%w: card %d, mastery %v", ErrInvalidEntry, cardID, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.statuses.Clone()
	next.Put(cardID, m)
	blob, err := Encode(next)
	if err != nil {
		log.Error("failed to encode statuses: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	s.statuses = next

	if err := s.repo.Put(ctx, s.name, blob); err != nil {
		log.Error("failed to persist statuses: %v", err)
		return &PersistenceWriteError{CardID: cardID, Err: err}
	}
	log.Debug("mastery saved")
	return nil
}

// Reset forgets every decision, in memory and on disk.
func (s *Store) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("status_store")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses = models.StatusMap{}
	if err := s.repo.Delete(ctx, s.name); err != nil {
		log.Error("failed to delete status record: %v", err)
		return &PersistenceWriteError{Err: err}
	}
	log.Info("statuses reset")
	return nil
}

// Summary counts decisions over the given card ids.
func (s *Store) Summary(ids []int) models.MasterySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum models.MasterySummary
	for _, id := range ids {
		switch s.statuses.Get(id) {
		case models.Mastered:
			sum.Mastered++
		case models.NeedsReview:
			sum.NeedsReview++
		default:
			sum.Unset++
		}
	}
	return sum
}

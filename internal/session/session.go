// Package session is the card/session state machine: which card is current,
// which face is shown, how far the step reveal has progressed, and the
// mastery decisions written through to the status store.
package session

import (
	"context"

	"github.com/vytor/econgraph/internal/deck"
	"github.com/vytor/econgraph/internal/models"
)

// Session is one learner's pass over a deck. It is not safe for concurrent
// use; callers serialize actions.
type Session struct {
	deck  *deck.Deck
	store MasteryStore
	nav   *Navigator

	// Per card view; rebuilt on every navigation. nil on an empty deck.
	flip       *FlipController
	steps      *StepController
	studyImage string
	hasDrawing bool
}

// New starts a session at the first card.
func New(d *deck.Deck, store MasteryStore) *Session {
	s := &Session{deck: d, store: store, nav: NewNavigator(d.Len())}
	s.enterCard()
	return s
}

func (s *Session) enterCard() {
	s.flip, s.steps, s.studyImage, s.hasDrawing = nil, nil, "", false

	card, ok := s.deck.Card(s.nav.Index())
	if !ok {
		return
	}
	s.flip = NewFlipController(card.ID, s.store)
	if study, ok := s.deck.Study(card.ID); ok {
		s.steps = NewStepController(study.Steps)
		s.studyImage = study.BaseImage
	}
}

func (s *Session) Index() int { return s.nav.Index() }
func (s *Session) Len() int   { return s.nav.Len() }

// Current returns the current card, false on an empty deck.
func (s *Session) Current() (models.CardRecord, bool) {
	return s.deck.Card(s.nav.Index())
}

// Next moves forward one card. At the last card the position is kept but
// the card view still starts over.
func (s *Session) Next() bool {
	moved := s.nav.Next()
	s.enterCard()
	return moved
}

// Previous moves back one card, with the same reset rule as Next.
func (s *Session) Previous() bool {
	moved := s.nav.Previous()
	s.enterCard()
	return moved
}

// JumpTo moves to card i. An out-of-range index changes nothing.
func (s *Session) JumpTo(i int) error {
	if err := s.nav.JumpTo(i); err != nil {
		return err
	}
	s.enterCard()
	return nil
}

// Flip toggles the current card's face.
func (s *Session) Flip() models.Side {
	if s.flip == nil {
		return models.Question
	}
	return s.flip.Flip()
}

func (s *Session) Side() models.Side {
	if s.flip == nil {
		return models.Question
	}
	return s.flip.Side()
}

// Mastery returns the stored decision for the current card.
func (s *Session) Mastery() models.Mastery {
	if s.flip == nil {
		return models.Unset
	}
	return s.flip.Mastery()
}

func (s *Session) MarkMastered(ctx context.Context) (models.Mastery, error) {
	if s.flip == nil {
		return models.Unset, ErrDeckEmpty
	}
	return s.flip.MarkMastered(ctx)
}

func (s *Session) MarkNeedsReview(ctx context.Context) (models.Mastery, error) {
	if s.flip == nil {
		return models.Unset, ErrDeckEmpty
	}
	return s.flip.MarkNeedsReview(ctx)
}

// SetDrawing records whether the drawing surface has content. It gates
// nothing today.
func (s *Session) SetDrawing(has bool) {
	if s.flip != nil {
		s.hasDrawing = has
	}
}

func (s *Session) HasDrawing() bool { return s.hasDrawing }

// AdvanceStep reveals the next study step of the current card.
func (s *Session) AdvanceStep() bool {
	if s.steps == nil {
		return false
	}
	return s.steps.Advance()
}

// ResetSteps hides every study step of the current card.
func (s *Session) ResetSteps() {
	if s.steps != nil {
		s.steps.Reset()
	}
}

// Steps returns the step controller for the current card, nil when the
// card has no study content.
func (s *Session) Steps() *StepController { return s.steps }

// View snapshots everything the renderer needs.
func (s *Session) View() models.SessionView {
	v := models.SessionView{
		Index:      s.nav.Index(),
		Total:      s.nav.Len(),
		Side:       s.Side(),
		Mastery:    s.Mastery(),
		HasDrawing: s.hasDrawing,
		CanPrev:    s.nav.HasPrevious(),
		CanNext:    s.nav.HasNext(),
		Progress:   make([]models.ProgressDot, 0, s.nav.Len()),
	}
	if card, ok := s.Current(); ok {
		v.Card = &card
	}

	for i, id := range s.deck.IDs() {
		m := s.store.Get(id)
		v.Progress = append(v.Progress, models.ProgressDot{CardID: id, Mastery: m, Current: i == v.Index})
		switch m {
		case models.Mastered:
			v.Summary.Mastered++
		case models.NeedsReview:
			v.Summary.NeedsReview++
		default:
			v.Summary.Unset++
		}
	}

	if s.steps != nil {
		sv := &models.StudyView{
			BaseImage:  s.studyImage,
			Cursor:     s.steps.Cursor(),
			Total:      s.steps.Len(),
			Visible:    s.steps.Visible(),
			CanAdvance: s.steps.CanAdvance(),
		}
		if cur, ok := s.steps.Current(); ok {
			sv.Current = &cur
		}
		v.Study = sv
	}
	return v
}

package session

import (
	"context"

	"github.com/vytor/econgraph/internal/models"
)

// MasteryStore is the part of the status store a card view writes through to.
type MasteryStore interface {
	Get(cardID int) models.Mastery
	Set(ctx context.Context, cardID int, m models.Mastery) error
}

// FlipController holds the face shown for one card view and records
// mastery decisions for that card.
type FlipController struct {
	cardID int
	side   models.Side
	store  MasteryStore
}

// NewFlipController starts on the question side.
func NewFlipController(cardID int, store MasteryStore) *FlipController {
	return &FlipController{cardID: cardID, side: models.Question, store: store}
}

func (f *FlipController) CardID() int { return f.cardID }

func (f *FlipController) Side() models.Side { return f.side }

// Flip toggles between question and answer. Flipping is allowed whether
// or not the learner has drawn anything.
func (f *FlipController) Flip() models.Side {
	if f.side == models.Question {
		f.side = models.Answer
	} else {
		f.side = models.Question
	}
	return f.side
}

// Mastery returns the stored decision for the card.
func (f *FlipController) Mastery() models.Mastery {
	return f.store.Get(f.cardID)
}

func (f *FlipController) MarkMastered(ctx context.Context) (models.Mastery, error) {
	return f.mark(ctx, models.Mastered)
}

func (f *FlipController) MarkNeedsReview(ctx context.Context) (models.Mastery, error) {
	return f.mark(ctx, models.NeedsReview)
}

// mark is only accepted on the answer side. A persistence failure still
// returns m because the store keeps the value in memory.
func (f *FlipController) mark(ctx context.Context, m models.Mastery) (models.Mastery, error) {
	if f.side != models.Answer {
		return f.store.Get(f.cardID), ErrAnswerHidden
	}
	if err := f.store.Set(ctx, f.cardID, m); err != nil {
		return m, err
	}
	return m, nil
}

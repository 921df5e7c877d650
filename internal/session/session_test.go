package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/econgraph/internal/deck"
	"github.com/vytor/econgraph/internal/models"
	"github.com/vytor/econgraph/internal/session"
	"github.com/vytor/econgraph/internal/testutil"
)

type memStore struct {
	m   models.StatusMap
	err error
}

func newMemStore() *memStore { return &memStore{m: models.StatusMap{}} }

func (s *memStore) Get(id int) models.Mastery { return s.m.Get(id) }

func (s *memStore) Set(_ context.Context, id int, m models.Mastery) error {
	s.m.Put(id, m)
	return s.err
}

func studyDeck(t *testing.T) *deck.Deck {
	t.Helper()
	graphs := []models.Graph{
		{ID: 1, Title: "Supply", Practice: models.PracticeData{Question: "q1", AnswerImage: "/a1.png", Explanation: "e1"},
			Study: &models.StudyData{BaseImage: "/base1.png", Steps: testutil.Steps(3)}},
		{ID: 2, Title: "Demand", Practice: models.PracticeData{Question: "q2", AnswerImage: "/a2.png", Explanation: "e2"}},
		{ID: 3, Title: "Tax", Practice: models.PracticeData{Question: "q3", AnswerImage: "/a3.png", Explanation: "e3"},
			Study: &models.StudyData{BaseImage: "/base3.png", Steps: testutil.Steps(2)}},
	}
	d, err := deck.New(graphs)
	require.NoError(t, err)
	return d
}

func TestNavigatorBounds(t *testing.T) {
	n := session.NewNavigator(3)

	assert.False(t, n.Previous())
	assert.Equal(t, 0, n.Index())

	assert.True(t, n.Next())
	assert.True(t, n.Next())
	assert.False(t, n.Next())
	assert.Equal(t, 2, n.Index())
	assert.False(t, n.HasNext())
	assert.True(t, n.HasPrevious())

	require.NoError(t, n.JumpTo(0))
	assert.Equal(t, 0, n.Index())

	for _, bad := range []int{-1, 3, 99} {
		err := n.JumpTo(bad)
		var oor *session.OutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, bad, oor.Index)
		assert.Equal(t, 3, oor.Length)
		assert.Equal(t, 0, n.Index())
	}
}

func TestNavigatorEmpty(t *testing.T) {
	n := session.NewNavigator(0)
	assert.True(t, n.Empty())
	assert.False(t, n.Next())
	assert.False(t, n.Previous())
	assert.Error(t, n.JumpTo(0))
}

func TestFlipTwiceReturnsToQuestion(t *testing.T) {
	f := session.NewFlipController(1, newMemStore())
	assert.Equal(t, models.Question, f.Side())
	assert.Equal(t, models.Answer, f.Flip())
	assert.Equal(t, models.Question, f.Flip())
}

func TestMarkRequiresAnswerSide(t *testing.T) {
	store := newMemStore()
	f := session.NewFlipController(1, store)

	m, err := f.MarkMastered(context.Background())
	assert.ErrorIs(t, err, session.ErrAnswerHidden)
	assert.Equal(t, models.Unset, m)
	assert.Equal(t, models.Unset, store.Get(1))

	f.Flip()
	m, err = f.MarkNeedsReview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.NeedsReview, m)
	assert.Equal(t, models.NeedsReview, store.Get(1))
}

func TestMarkKeepsValueOnWriteFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")
	f := session.NewFlipController(1, store)
	f.Flip()

	m, err := f.MarkMastered(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.Mastered, m)
	assert.Equal(t, models.Mastered, f.Mastery())
}

func TestStepRevealIsMonotonic(t *testing.T) {
	steps := testutil.Steps(3)
	c := session.NewStepController(steps)

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Empty(t, c.Visible())

	for i := 1; i <= 3; i++ {
		require.True(t, c.Advance())
		assert.Equal(t, i, c.Cursor())
		assert.Equal(t, steps[:i], c.Visible())
		cur, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, i, cur.Step)
	}

	assert.False(t, c.CanAdvance())
	assert.False(t, c.Advance())
	assert.Equal(t, 3, c.Cursor())

	c.Reset()
	assert.Equal(t, 0, c.Cursor())
	assert.Empty(t, c.Visible())
}

func TestStepVisibleIsACopy(t *testing.T) {
	c := session.NewStepController(testutil.Steps(2))
	c.Advance()
	v := c.Visible()
	v[0].Label = "changed"
	assert.Equal(t, "Step", c.Visible()[0].Label)
}

// Open, flip, mark mastered, next: the new card starts on its question and
// the previous card keeps its decision.
func TestSessionFlipMarkAndAdvance(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := session.New(studyDeck(t), store)

	assert.Equal(t, models.Answer, s.Flip())
	m, err := s.MarkMastered(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Mastered, m)

	assert.True(t, s.Next())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, models.Question, s.Side())
	assert.Equal(t, models.Unset, s.Mastery())

	v := s.View()
	assert.Equal(t, models.Mastered, v.Progress[0].Mastery)
	assert.True(t, v.Progress[1].Current)
	assert.Equal(t, models.MasterySummary{Mastered: 1, Unset: 2}, v.Summary)
}

// Reveal two steps, navigate away and back: the reveal starts over.
func TestSessionStepsResetOnNavigation(t *testing.T) {
	s := session.New(studyDeck(t), newMemStore())

	require.True(t, s.AdvanceStep())
	require.True(t, s.AdvanceStep())
	assert.Equal(t, 2, s.Steps().Cursor())

	s.Next()
	assert.Nil(t, s.Steps())
	assert.False(t, s.AdvanceStep())

	s.Previous()
	require.NotNil(t, s.Steps())
	assert.Equal(t, 0, s.Steps().Cursor())
	assert.Equal(t, 3, s.Steps().Len())
}

func TestSessionNoOpNavigationStillResetsView(t *testing.T) {
	s := session.New(studyDeck(t), newMemStore())
	s.Flip()
	s.SetDrawing(true)
	s.AdvanceStep()

	assert.False(t, s.Previous())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, models.Question, s.Side())
	assert.False(t, s.HasDrawing())
	assert.Equal(t, 0, s.Steps().Cursor())
}

func TestSessionFailedJumpChangesNothing(t *testing.T) {
	s := session.New(studyDeck(t), newMemStore())
	s.Flip()
	s.AdvanceStep()

	err := s.JumpTo(7)
	var oor *session.OutOfRangeError
	require.ErrorAs(t, err, &oor)

	assert.Equal(t, 0, s.Index())
	assert.Equal(t, models.Answer, s.Side())
	assert.Equal(t, 1, s.Steps().Cursor())
}

func TestSessionJump(t *testing.T) {
	s := session.New(studyDeck(t), newMemStore())
	require.NoError(t, s.JumpTo(2))

	card, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 3, card.ID)
	assert.False(t, s.View().CanNext)
	assert.True(t, s.View().CanPrev)
	assert.Equal(t, 2, s.Steps().Len())
}

func TestSessionEmptyDeck(t *testing.T) {
	ctx := context.Background()
	s := session.New(testutil.NewDeck(t), newMemStore())

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, models.Question, s.Flip())

	_, err := s.MarkMastered(ctx)
	assert.ErrorIs(t, err, session.ErrDeckEmpty)
	_, err = s.MarkNeedsReview(ctx)
	assert.ErrorIs(t, err, session.ErrDeckEmpty)

	s.SetDrawing(true)
	assert.False(t, s.HasDrawing())

	v := s.View()
	assert.Nil(t, v.Card)
	assert.Empty(t, v.Progress)
	assert.False(t, v.CanNext)
	assert.False(t, v.CanPrev)
}

func TestSessionViewStudy(t *testing.T) {
	s := session.New(studyDeck(t), newMemStore())
	s.AdvanceStep()

	v := s.View()
	require.NotNil(t, v.Study)
	assert.Equal(t, "/base1.png", v.Study.BaseImage)
	assert.Equal(t, 1, v.Study.Cursor)
	assert.Equal(t, 3, v.Study.Total)
	assert.Len(t, v.Study.Visible, 1)
	require.NotNil(t, v.Study.Current)
	assert.Equal(t, 1, v.Study.Current.Step)
	assert.True(t, v.Study.CanAdvance)

	s.ResetSteps()
	assert.Nil(t, s.View().Study.Current)
}

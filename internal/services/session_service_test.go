package services

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/econgraph/internal/db"
	"github.com/vytor/econgraph/internal/errors"
	"github.com/vytor/econgraph/internal/models"
	"github.com/vytor/econgraph/internal/repository/sqlite"
	"github.com/vytor/econgraph/internal/session"
	"github.com/vytor/econgraph/internal/status"
	"github.com/vytor/econgraph/internal/testutil"
	"github.com/vytor/econgraph/internal/testutil/mocks"
)

type SessionServiceSuite struct {
	suite.Suite
	db    *db.DB
	store *status.Store
	svc   *sessionService
	clock time.Time
}

func (s *SessionServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = status.NewStore(sqlite.NewRecordRepository(s.db.DB), status.DefaultRecordName)
	s.store.LoadAll(context.Background())

	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = NewSessionService(testutil.NewDeck(s.T(), 10, 20, 30), s.store, time.Hour).(*sessionService)
	s.svc.now = func() time.Time { return s.clock }
}

func (s *SessionServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionServiceSuite) TestEnsureCreatesAndReuses() {
	ctx := context.Background()

	id, created := s.svc.Ensure(ctx, "")
	s.Require().True(created)
	s.Assert().NotEmpty(id)

	again, created := s.svc.Ensure(ctx, id)
	s.Assert().False(created)
	s.Assert().Equal(id, again)

	other, created := s.svc.Ensure(ctx, "unknown")
	s.Assert().True(created)
	s.Assert().NotEqual(id, other)
	s.Assert().Equal(2, s.svc.Len())
}

func (s *SessionServiceSuite) TestUnknownSessionIsNotFound() {
	_, err := s.svc.Next(context.Background(), "missing")

	var appErr *errors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *SessionServiceSuite) TestMarkAndNavigate() {
	ctx := context.Background()
	id, _ := s.svc.Ensure(ctx, "")

	_, err := s.svc.MarkMastered(ctx, id)
	s.Assert().ErrorIs(err, session.ErrAnswerHidden)

	v, err := s.svc.Flip(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.Answer, v.Side)

	v, err = s.svc.MarkMastered(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.Mastered, v.Mastery)
	s.Assert().Equal(id, v.SessionID)

	v, err = s.svc.Next(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(1, v.Index)
	s.Assert().Equal(models.Question, v.Side)
	s.Assert().Equal(models.Unset, v.Mastery)
	s.Assert().Equal(models.Mastered, s.store.Get(10))
}

func (s *SessionServiceSuite) TestSessionsShareStatuses() {
	ctx := context.Background()
	a, _ := s.svc.Ensure(ctx, "")
	b, _ := s.svc.Ensure(ctx, "")

	_, err := s.svc.Flip(ctx, a)
	s.Require().NoError(err)
	_, err = s.svc.MarkNeedsReview(ctx, a)
	s.Require().NoError(err)

	v, err := s.svc.View(ctx, b)
	s.Require().NoError(err)
	s.Assert().Equal(models.NeedsReview, v.Mastery)
	s.Assert().Equal(models.Question, v.Side)
}

func (s *SessionServiceSuite) TestJumpOutOfRange() {
	ctx := context.Background()
	id, _ := s.svc.Ensure(ctx, "")

	v, err := s.svc.JumpTo(ctx, id, 5)
	var oor *session.OutOfRangeError
	s.Require().ErrorAs(err, &oor)
	s.Assert().Equal(0, v.Index)

	v, err = s.svc.JumpTo(ctx, id, 2)
	s.Require().NoError(err)
	s.Assert().Equal(2, v.Index)
}

func (s *SessionServiceSuite) TestDeckAndStatuses() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, 20, models.Mastered))

	entries := s.svc.Deck(ctx)
	s.Require().Len(entries, 3)
	s.Assert().Equal(models.DeckEntry{Index: 1, ID: 20, Title: "Graph", Mastery: models.Mastered}, entries[1])

	all, sum := s.svc.Statuses(ctx)
	s.Assert().Equal(models.StatusMap{20: models.Mastered}, all)
	s.Assert().Equal(models.MasterySummary{Mastered: 1, Unset: 2}, sum)

	s.Require().NoError(s.svc.ResetStatuses(ctx))
	all, _ = s.svc.Statuses(ctx)
	s.Assert().Empty(all)
}

func (s *SessionServiceSuite) TestSweepEvictsIdleSessions() {
	ctx := context.Background()
	old, _ := s.svc.Ensure(ctx, "")

	s.clock = s.clock.Add(45 * time.Minute)
	fresh, _ := s.svc.Ensure(ctx, "")

	s.clock = s.clock.Add(30 * time.Minute)
	s.Assert().Equal(1, s.svc.Sweep(ctx))
	s.Assert().Equal(1, s.svc.Len())

	_, err := s.svc.View(ctx, old)
	s.Assert().Error(err)
	_, err = s.svc.View(ctx, fresh)
	s.Assert().NoError(err)
}

func (s *SessionServiceSuite) TestActivityKeepsSessionAlive() {
	ctx := context.Background()
	id, _ := s.svc.Ensure(ctx, "")

	s.clock = s.clock.Add(50 * time.Minute)
	_, err := s.svc.Flip(ctx, id)
	s.Require().NoError(err)

	s.clock = s.clock.Add(50 * time.Minute)
	s.Assert().Equal(0, s.svc.Sweep(ctx))
}

func (s *SessionServiceSuite) TestEnsureRefreshesLastSeen() {
	ctx := context.Background()
	id, _ := s.svc.Ensure(ctx, "")

	s.clock = s.clock.Add(50 * time.Minute)
	again, created := s.svc.Ensure(ctx, id)
	s.Require().False(created)
	s.Require().Equal(id, again)

	s.clock = s.clock.Add(50 * time.Minute)
	s.Assert().Equal(0, s.svc.Sweep(ctx))
	_, err := s.svc.View(ctx, id)
	s.Assert().NoError(err)
}

func (s *SessionServiceSuite) TestEnsureAndSweepConcurrently() {
	ctx := context.Background()
	id, _ := s.svc.Ensure(ctx, "")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, _ := s.svc.Ensure(ctx, id)
				_, err := s.svc.Flip(ctx, got)
				s.Assert().NoError(err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.svc.Sweep(ctx)
			}
		}()
	}
	wg.Wait()
	s.Assert().Equal(1, s.svc.Len())
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	store := status.NewStore(new(mocks.MockRecordRepository), "")
	svc := NewSessionService(testutil.NewDeck(t, 1), store, 0)
	svc.Ensure(context.Background(), "")

	assert.Equal(t, 0, svc.Sweep(context.Background()))
	assert.NoError(t, svc.StartSweeper(time.Minute))
	svc.StopSweeper()
}

func TestMarkReturnsWriteFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRecordRepository)
	repo.On("Put", mock.Anything, status.DefaultRecordName, mock.Anything).Return(stderrors.New("disk full"))

	store := status.NewStore(repo, "")
	svc := NewSessionService(testutil.NewDeck(t, 1), store, time.Hour)
	id, _ := svc.Ensure(ctx, "")
	_, err := svc.Flip(ctx, id)
	require.NoError(t, err)

	v, err := svc.MarkMastered(ctx, id)
	var werr *status.PersistenceWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, models.Mastered, v.Mastery)
	repo.AssertExpectations(t)
}

func TestEmptyDeckActions(t *testing.T) {
	ctx := context.Background()
	store := status.NewStore(new(mocks.MockRecordRepository), "")
	svc := NewSessionService(testutil.NewDeck(t), store, time.Hour)
	id, _ := svc.Ensure(ctx, "")

	v, err := svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, v.Card)

	_, err = svc.MarkNeedsReview(ctx, id)
	assert.ErrorIs(t, err, session.ErrDeckEmpty)
}

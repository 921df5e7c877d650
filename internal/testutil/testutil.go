package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/econgraph/internal/db"
	"github.com/vytor/econgraph/internal/deck"
	"github.com/vytor/econgraph/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// NewDeck builds a deck of practice-only graphs with the given ids.
func NewDeck(t *testing.T, ids ...int) *deck.Deck {
	t.Helper()
	graphs := make([]models.Graph, len(ids))
	for i, id := range ids {
		graphs[i] = models.Graph{
			ID:    id,
			Title: "Graph",
			Practice: models.PracticeData{
				Question:    "Draw the graph",
				AnswerImage: "/graphs/answer.png",
				Explanation: "Explanation",
			},
		}
	}
	d, err := deck.New(graphs)
	require.NoError(t, err)
	return d
}

// Steps returns n renderable draw steps numbered from 1.
func Steps(n int) []models.StepRecord {
	steps := make([]models.StepRecord, n)
	for i := range steps {
		steps[i] = models.StepRecord{
			Step:        i + 1,
			Action:      models.ActionDraw,
			Type:        models.GeometryLine,
			Path:        "M 0 0 L 100 100",
			Label:       "Step",
			Explanation: "Explanation",
		}
	}
	return steps
}

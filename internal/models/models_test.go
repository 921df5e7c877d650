package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/econgraph/internal/models"
)

func TestMastery_JSON(t *testing.T) {
	tests := []struct {
		m    models.Mastery
		json string
	}{
		{models.Unset, `null`},
		{models.Mastered, `"mastered"`},
		{models.NeedsReview, `"needs-review"`},
	}
	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			b, err := json.Marshal(tt.m)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(b))

			var got models.Mastery
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.m, got)
		})
	}
}

func TestMastery_RejectsUnknownToken(t *testing.T) {
	var m models.Mastery
	assert.Error(t, json.Unmarshal([]byte(`"learning"`), &m))
	assert.Error(t, json.Unmarshal([]byte(`3`), &m))
	assert.Error(t, json.Unmarshal([]byte(`""`), &m))

	_, err := models.ParseMastery("")
	assert.Error(t, err)
	assert.False(t, models.Mastery(9).Valid())
	assert.True(t, models.Unset.Valid())

	_, err = models.Mastery(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Mastery(9)", models.Mastery(9).String())
}

func TestStatusMap_PutUnsetDeletes(t *testing.T) {
	m := models.StatusMap{}
	m.Put(1, models.Mastered)
	m.Put(2, models.NeedsReview)
	m.Put(1, models.Unset)

	assert.Equal(t, models.StatusMap{2: models.NeedsReview}, m)
	assert.Equal(t, models.Unset, m.Get(1))
	assert.Equal(t, models.Unset, m.Get(99))

	clone := m.Clone()
	clone.Put(3, models.Mastered)
	assert.Len(t, m, 1, "clone must not alias")
}

func TestStepRecord_Renderable(t *testing.T) {
	x, y := 10.0, 20.0
	tests := []struct {
		name string
		step models.StepRecord
		want bool
	}{
		{"draw with path", models.StepRecord{Action: models.ActionDraw, Path: "M 0 0 L 10 10"}, true},
		{"draw without path", models.StepRecord{Action: models.ActionDraw}, false},
		{"overlay with image", models.StepRecord{Action: models.ActionOverlay, Image: "/img/dwl.png"}, true},
		{"overlay without image", models.StepRecord{Action: models.ActionOverlay}, false},
		{"highlight with coordinates", models.StepRecord{Action: models.ActionHighlight, X: &x, Y: &y}, true},
		{"highlight missing y", models.StepRecord{Action: models.ActionHighlight, X: &x}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.Renderable())
		})
	}
}

func TestStepRecord_StrokeDefaults(t *testing.T) {
	color, width := models.StepRecord{}.Stroke()
	assert.Equal(t, models.DefaultStrokeColor, color)
	assert.Equal(t, models.DefaultStrokeWidth, width)

	w := 4.0
	color, width = models.StepRecord{StrokeColor: "#dc2626", StrokeWidth: &w}.Stroke()
	assert.Equal(t, "#dc2626", color)
	assert.Equal(t, 4.0, width)
}

func TestGraph_CardFlattensPractice(t *testing.T) {
	g := models.Graph{
		ID:    3,
		Title: "Price ceiling",
		Practice: models.PracticeData{
			Question:    "Draw a binding price ceiling.",
			AnswerImage: "/graphs/ceiling.png",
			Explanation: "A ceiling below equilibrium creates a shortage.",
			KeyElements: []models.KeyElement{{Element: "Shortage", Description: "Qd > Qs"}},
		},
	}

	card := g.Card()
	assert.Equal(t, 3, card.ID)
	assert.Equal(t, "Price ceiling", card.Title)
	assert.Equal(t, g.Practice.Question, card.Question)
	assert.Equal(t, g.Practice.KeyElements, card.KeyElements)
}

func TestSide_Text(t *testing.T) {
	b, err := json.Marshal(models.Answer)
	require.NoError(t, err)
	assert.Equal(t, `"answer"`, string(b))

	var s models.Side
	require.NoError(t, json.Unmarshal([]byte(`"question"`), &s))
	assert.Equal(t, models.Question, s)
	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &s))
}

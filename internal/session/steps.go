package session

import "github.com/vytor/econgraph/internal/models"

// StepController reveals an ordered step sequence one step at a time.
// The visible steps are always the prefix steps[:cursor].
type StepController struct {
	steps  []models.StepRecord
	cursor int
}

// NewStepController starts with nothing revealed. steps is not copied and
// must not be modified afterwards.
func NewStepController(steps []models.StepRecord) *StepController {
	return &StepController{steps: steps}
}

func (c *StepController) Cursor() int { return c.cursor }
func (c *StepController) Len() int    { return len(c.steps) }

// CanAdvance reports whether another step remains hidden.
func (c *StepController) CanAdvance() bool { return c.cursor < len(c.steps) }

// Advance reveals the next step. Once every step is visible it does nothing.
func (c *StepController) Advance() bool {
	if !c.CanAdvance() {
		return false
	}
	c.cursor++
	return true
}

// Reset hides every step.
func (c *StepController) Reset() { c.cursor = 0 }

// Current returns the most recently revealed step.
func (c *StepController) Current() (models.StepRecord, bool) {
	if c.cursor == 0 {
		return models.StepRecord{}, false
	}
	return c.steps[c.cursor-1], true
}

// Visible returns a copy of the revealed steps in their original order.
func (c *StepController) Visible() []models.StepRecord {
	out := make([]models.StepRecord, c.cursor)
	copy(out, c.steps[:c.cursor])
	return out
}

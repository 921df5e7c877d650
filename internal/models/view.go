package models

import "fmt"

// Side is the visible face of a flashcard.
type Side int

const (
	Question Side = iota
	Answer
)

func (s Side) String() string {
	if s == Answer {
		return "answer"
	}
	return "question"
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "question":
		*s = Question
	case "answer":
		*s = Answer
	default:
		return fmt.Errorf("invalid side: %q", text)
	}
	return nil
}

// SessionView is everything a renderer needs for one frame.
type SessionView struct {
	SessionID  string         `json:"sessionId,omitempty"`
	Index      int            `json:"index"`
	Total      int            `json:"total"`
	Card       *CardRecord    `json:"card"`
	Mastery    Mastery        `json:"mastery"`
	Side       Side           `json:"side"`
	HasDrawing bool           `json:"hasDrawing"`
	CanPrev    bool           `json:"canPrevious"`
	CanNext    bool           `json:"canNext"`
	Progress   []ProgressDot  `json:"progress"`
	Study      *StudyView     `json:"study,omitempty"`
	Summary    MasterySummary `json:"summary"`
}

// ProgressDot is one entry of the deck navigation strip.
type ProgressDot struct {
	CardID  int     `json:"cardId"`
	Mastery Mastery `json:"mastery"`
	Current bool    `json:"current"`
}

// StudyView is the step-reveal state for the current card.
type StudyView struct {
	BaseImage  string       `json:"baseImage"`
	Cursor     int          `json:"cursor"`
	Total      int          `json:"total"`
	Visible    []StepRecord `json:"visible"`
	Current    *StepRecord  `json:"current"`
	CanAdvance bool         `json:"canAdvance"`
}

// DeckEntry summarizes a graph for listings.
type DeckEntry struct {
	Index    int     `json:"index"`
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Mastery  Mastery `json:"mastery"`
	HasStudy bool    `json:"hasStudy"`
}

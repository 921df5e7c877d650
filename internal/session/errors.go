package session

import (
	"errors"
	"fmt"
)

var (
	// ErrDeckEmpty is returned by card actions when the deck has no cards.
	ErrDeckEmpty = errors.New("session: deck is empty")

	// ErrAnswerHidden is returned when mastery is marked before the answer
	// face has been revealed.
	ErrAnswerHidden = errors.New("session: answer not revealed")
)

// OutOfRangeError reports a jump to an index outside [0, Length).
type OutOfRangeError struct {
	Index  int
	Length int
}

func (e *OutOfRangeError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("card index %d out of range: deck is empty", e.Index)
	}
	return fmt.Sprintf("card index %d out of range [0, %d)", e.Index, e.Length)
}

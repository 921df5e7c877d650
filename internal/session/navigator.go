package session

// Navigator tracks the current position in a deck of fixed length.
// The index always satisfies 0 <= index < length, except for an empty
// deck where it stays 0 and there is no current card.
type Navigator struct {
	index  int
	length int
}

// NewNavigator starts at index 0.
func NewNavigator(length int) *Navigator {
	if length < 0 {
		length = 0
	}
	return &Navigator{length: length}
}

func (n *Navigator) Index() int  { return n.index }
func (n *Navigator) Len() int    { return n.length }
func (n *Navigator) Empty() bool { return n.length == 0 }

// HasNext reports whether Next would move.
func (n *Navigator) HasNext() bool { return n.index < n.length-1 }

// HasPrevious reports whether Previous would move.
func (n *Navigator) HasPrevious() bool { return n.index > 0 }

// Next advances one card; at the last card it does nothing.
func (n *Navigator) Next() bool {
	if !n.HasNext() {
		return false
	}
	n.index++
	return true
}

// Previous steps back one card; at the first card it does nothing.
func (n *Navigator) Previous() bool {
	if !n.HasPrevious() {
		return false
	}
	n.index--
	return true
}

// JumpTo moves to index i, or returns *OutOfRangeError and leaves the
// position unchanged.
func (n *Navigator) JumpTo(i int) error {
	if i < 0 || i >= n.length {
		return &OutOfRangeError{Index: i, Length: n.length}
	}
	n.index = i
	return nil
}

package models

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Mastery is the learner's self-assessed recall status for a card.
type Mastery int

const (
	Unset Mastery = iota
	Mastered
	NeedsReview
)

var (
	masteryTokens  = [...]string{Unset: "", Mastered: "mastered", NeedsReview: "needs-review"}
	masteryByToken = map[string]Mastery{
		"mastered":     Mastered,
		"needs-review": NeedsReview,
	}
)

var (
	_ fmt.Stringer             = Mastery(0)
	_ json.Marshaler           = Mastery(0)
	_ json.Unmarshaler         = (*Mastery)(nil)
	_ encoding.TextMarshaler   = Mastery(0)
	_ encoding.TextUnmarshaler = (*Mastery)(nil)
)

// Valid reports whether m is one of the declared values.
func (m Mastery) Valid() bool {
	return m >= Unset && m <= NeedsReview
}

// String returns the persisted token, "unset" for Unset.
func (m Mastery) String() string {
	switch {
	case m == Unset:
		return "unset"
	case m.Valid():
		return masteryTokens[m]
	default:
		return fmt.Sprintf("Mastery(%d)", int(m))
	}
}

// ParseMastery accepts "mastered" and "needs-review". Unset has no token;
// in JSON it is null.
func ParseMastery(token string) (Mastery, error) {
	m, ok := masteryByToken[token]
	if !ok {
		return Unset, fmt.Errorf("invalid mastery: %q", token)
	}
	return m, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mastery) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mastery: %d", int(m))
	}
	return []byte(masteryTokens[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mastery) UnmarshalText(text []byte) error {
	v, err := ParseMastery(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalJSON renders Unset as null and the others as their token.
func (m Mastery) MarshalJSON() ([]byte, error) {
	if m == Unset {
		return []byte("null"), nil
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON accepts null or a token string.
func (m *Mastery) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Unset
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("invalid mastery: %s", data)
	}
	return m.UnmarshalText([]byte(token))
}

// StatusMap maps card identifiers to mastery. Absent keys are Unset and
// Unset is never stored.
type StatusMap map[int]Mastery

// Get returns the mastery for id, Unset when absent.
func (s StatusMap) Get(id int) Mastery {
	return s[id]
}

// Put records m for id; Unset removes the key.
func (s StatusMap) Put(id int, m Mastery) {
	if m == Unset {
		delete(s, id)
		return
	}
	s[id] = m
}

// Clone returns an independent copy.
func (s StatusMap) Clone() StatusMap {
	out := make(StatusMap, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MasterySummary counts decisions across a deck.
type MasterySummary struct {
	Mastered    int `json:"mastered"`
	NeedsReview int `json:"needsReview"`
	Unset       int `json:"unset"`
}

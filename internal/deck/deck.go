// Package deck holds the ordered, read-only collection of graph cards a
// study session runs over, and the loaders that build it.
package deck

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/econgraph/internal/models"
)

var (
	// ErrDuplicateID is returned when two graphs share an identifier.
	ErrDuplicateID = errors.New("deck: duplicate graph id")

	// ErrInvalidGraph wraps struct validation failures.
	ErrInvalidGraph = errors.New("deck: invalid graph")
)

var validate = validator.New()

// Deck is an immutable ordered sequence of graphs.
type Deck struct {
	graphs []models.Graph
	byID   map[int]int
}

// New validates graphs and builds a Deck preserving their order.
// Study steps missing their action-specific field are accepted; see Audit.
func New(graphs []models.Graph) (*Deck, error) {
	d := &Deck{
		graphs: make([]models.Graph, len(graphs)),
		byID:   make(map[int]int, len(graphs)),
	}
	for i, g := range graphs {
		if err := validate.Struct(g); err != nil {
			return nil, fmt.Errorf("%w: entry %d (id=%d): %v", ErrInvalidGraph, i, g.ID, err)
		}
		if prev, dup := d.byID[g.ID]; dup {
			return nil, fmt.Errorf("%w: %d at entries %d and %d", ErrDuplicateID, g.ID, prev, i)
		}
		d.byID[g.ID] = i
		d.graphs[i] = g
	}
	return d, nil
}

// Len returns the number of graphs.
func (d *Deck) Len() int { return len(d.graphs) }

// At returns the graph at index i.
func (d *Deck) At(i int) (models.Graph, bool) {
	if i < 0 || i >= len(d.graphs) {
		return models.Graph{}, false
	}
	return d.graphs[i], true
}

// Card returns the flattened practice card at index i.
func (d *Deck) Card(i int) (models.CardRecord, bool) {
	g, ok := d.At(i)
	if !ok {
		return models.CardRecord{}, false
	}
	return g.Card(), true
}

// IndexOf returns the position of the graph with the given id.
func (d *Deck) IndexOf(id int) (int, bool) {
	i, ok := d.byID[id]
	return i, ok
}

// Study returns the study content for the graph with the given id.
func (d *Deck) Study(id int) (*models.StudyData, bool) {
	i, ok := d.byID[id]
	if !ok || d.graphs[i].Study == nil {
		return nil, false
	}
	return d.graphs[i].Study, true
}

// IDs returns card identifiers in deck order.
func (d *Deck) IDs() []int {
	ids := make([]int, len(d.graphs))
	for i, g := range d.graphs {
		ids[i] = g.ID
	}
	return ids
}

// Graphs returns a copy of the deck's graphs in order.
func (d *Deck) Graphs() []models.Graph {
	out := make([]models.Graph, len(d.graphs))
	copy(out, d.graphs)
	return out
}

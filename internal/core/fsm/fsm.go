// Package fsm holds the guarded transition tables backing every entity
// lifecycle. Each entity package declares its states and legal edges once;
// services ask the table before persisting, so no transition rule lives in
// handler code.
package fsm

import (
	"fmt"

	"github.com/enviohq/envio-backend/internal"
)

type Edge struct {
	From string
	To   string
}

// Table is an immutable set of legal transitions for one entity type.
type Table struct {
	entity string
	edges  map[string]map[string]struct{}
}

func New(entity string, edges ...Edge) *Table {
	t := &Table{
		entity: entity,
		edges:  make(map[string]map[string]struct{}),
	}
	for _, e := range edges {
		if t.edges[e.From] == nil {
			t.edges[e.From] = make(map[string]struct{})
		}
		t.edges[e.From][e.To] = struct{}{}
	}
	return t
}

func (t *Table) Entity() string {
	return t.entity
}

func (t *Table) Can(from, to string) bool {
	targets, ok := t.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Guard returns a Conflict error when the requested transition is not in
// the table. Illegal transitions must surface, never be silently ignored.
func (t *Table) Guard(from, to string) error {
	if t.Can(from, to) {
		return nil
	}
	return internal.NewConflictError(
		fmt.Sprintf("%s cannot move from %s to %s", t.entity, from, to),
		internal.ErrCodeIllegalTransition,
	)
}

// Terminal reports whether a state has no outgoing edges.
func (t *Table) Terminal(state string) bool {
	return len(t.edges[state]) == 0
}

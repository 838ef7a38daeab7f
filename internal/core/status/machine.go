// Package status holds the transition tables for bookings and service orders.
// Every status change in the engine goes through a Machine; nothing compares
// status strings ad hoc.
package status

import (
	"strings"

	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type Edge[S ~string] struct {
	From           S
	To             S
	RequiresReason bool
	Intents        []domain.IntentKind
}

type Result[S ~string] struct {
	From    S
	To      S
	Intents []domain.IntentKind
}

type Machine[S ~string] struct {
	entity  string
	edges   map[S]map[S]Edge[S]
	actions map[string]S
}

func NewMachine[S ~string](entity string, actions map[string]S, edges ...Edge[S]) *Machine[S] {
	m := &Machine[S]{
		entity:  entity,
		edges:   make(map[S]map[S]Edge[S]),
		actions: actions,
	}

	for _, e := range edges {
		if m.edges[e.From] == nil {
			m.edges[e.From] = make(map[S]Edge[S])
		}
		m.edges[e.From][e.To] = e
	}

	return m
}

func (m *Machine[S]) Entity() string {
	return m.entity
}

// Target maps an action name ("confirm", "cancel", ...) to its status.
func (m *Machine[S]) Target(action string) (S, error) {
	to, ok := m.actions[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		var zero S
		return zero, domain.Invalid("unknown %s action %q", m.entity, action)
	}

	return to, nil
}

func (m *Machine[S]) Can(from, to S) bool {
	_, ok := m.edges[from][to]
	return ok
}

func (m *Machine[S]) IsTerminal(s S) bool {
	return len(m.edges[s]) == 0
}

func (m *Machine[S]) Transition(from, to S, reason string) (Result[S], error) {
	edge, ok := m.edges[from][to]
	if !ok {
		return Result[S]{}, &domain.InvalidTransitionError{Entity: m.entity, From: string(from), To: string(to)}
	}

	if edge.RequiresReason && strings.TrimSpace(reason) == "" {
		return Result[S]{}, domain.Invalid("a reason is required to move %s to %s", m.entity, to)
	}

	intents := make([]domain.IntentKind, len(edge.Intents))
	copy(intents, edge.Intents)

	return Result[S]{From: from, To: to, Intents: intents}, nil
}

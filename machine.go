// Package automat is a hierarchical finite-state-machine engine. A machine
// owns a set of named state nodes and advances one step per Tick call,
// evaluating transition guards against a caller-supplied context value and
// invoking lifecycle hooks on entry, continued occupancy, and exit. A node
// may own a nested machine, which is driven in lock-step with its owner.
//
// Machines are built from a declarative Config tree, a fluent Builder, or a
// YAML Definition; all three compile down to the same two-phase
// register-then-resolve construction. Execution is single-threaded and
// synchronous: the caller controls all timing by choosing when to call Tick.
package automat

import (
	"fmt"
	"time"
)

// Machine owns a collection of state nodes keyed by name, a designated
// initial node, and the currently active node. A machine that has never been
// started has no active node; Tick and Exit on an inactive machine are safe
// no-ops.
type Machine[C any] struct {
	id    string
	nodes map[string]*StateNode[C]

	// order preserves authoring order for deterministic iteration and the
	// first-child initial-state default.
	order []*StateNode[C]

	initial *StateNode[C]
	current *StateNode[C]

	// ctx is bound at Start and cleared at Exit, together with current.
	ctx C

	resolved bool
	observer Observer
}

// Option configures a machine at construction.
type Option[C any] func(*Machine[C])

// WithObserver registers an observer notified of starts, transitions and
// exits. Nested machines built from a Config or Builder inherit the parent's
// observer unless they carry their own.
func WithObserver[C any](o Observer) Option[C] {
	return func(m *Machine[C]) {
		m.observer = o
	}
}

// New creates an empty machine. Most callers build machines through a
// Config, Builder or Definition instead of registering nodes by hand.
func New[C any](id string, opts ...Option[C]) *Machine[C] {
	m := &Machine[C]{
		id:    id,
		nodes: make(map[string]*StateNode[C]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the machine's identifier, used in observer notifications.
func (m *Machine[C]) ID() string {
	return m.id
}

// Register adds a node under its name. Registration is phase one of
// two-phase construction; no transition targets are resolved until
// ResolveAll runs, so nodes may reference siblings registered later.
func (m *Machine[C]) Register(n *StateNode[C]) error {
	if n.owner != nil && n.owner != m {
		return fmt.Errorf("state %q already belongs to machine %q: %w", n.name, n.owner.id, ErrInvalidConfiguration)
	}
	if _, exists := m.nodes[n.name]; exists {
		return fmt.Errorf("machine %q: state %q: %w", m.id, n.name, ErrDuplicateStateName)
	}
	n.owner = m
	m.nodes[n.name] = n
	m.order = append(m.order, n)
	return nil
}

// ResolveAll resolves every registered node's transition targets, phase two
// of construction. It must run after all nodes are registered. Repeat calls
// are no-ops.
func (m *Machine[C]) ResolveAll() error {
	if m.resolved {
		return nil
	}
	for _, n := range m.order {
		if err := n.init(m); err != nil {
			return err
		}
	}
	m.resolved = true
	return nil
}

// DesignateInitial selects the node entered by Start.
func (m *Machine[C]) DesignateInitial(name string) error {
	n, ok := m.nodes[name]
	if !ok {
		return fmt.Errorf("machine %q: state %q: %w", m.id, name, ErrUnknownInitialState)
	}
	m.initial = n
	return nil
}

// Start binds the context and enters the initial node, transitively entering
// any nested machine's own initial node. Starting an already active machine
// restarts it: the previous active node is exited first, then the initial
// node is entered fresh.
func (m *Machine[C]) Start(ctx C) {
	if m.current != nil {
		m.Exit()
	}
	if m.initial == nil {
		return
	}
	m.ctx = ctx
	m.current = m.initial
	if m.observer != nil {
		m.observer.Started(m.id, m.current.name)
	}
	m.current.enter(ctx)
}

// Tick advances the machine one step: the active node evaluates its
// transitions in authored order, and if one fires the machine exits the old
// node, swaps, and enters the new one, in that order. Inactive machines
// ignore Tick.
func (m *Machine[C]) Tick() {
	if m.current == nil {
		return
	}
	next := m.current.step(m.ctx)
	if next == m.current {
		return
	}
	prev := m.current
	prev.exit(m.ctx)
	m.current = next
	if m.observer != nil {
		m.observer.Transitioned(m.id, prev.name, next.name)
	}
	next.enter(m.ctx)
}

// Exit deactivates the current node, transitively exiting any nested
// machine, and clears the active node and bound context together. The
// machine is inert afterwards until restarted. Exiting an inactive machine
// is a no-op.
func (m *Machine[C]) Exit() {
	if m.current == nil {
		return
	}
	last := m.current
	last.exit(m.ctx)
	m.current = nil
	var zero C
	m.ctx = zero
	if m.observer != nil {
		m.observer.Stopped(m.id, last.name)
	}
}

// Current returns the active node, or nil if the machine is inactive.
func (m *Machine[C]) Current() *StateNode[C] {
	return m.current
}

// Lookup returns the node registered under name. It does not search nested
// machines; their namespaces are independent.
func (m *Machine[C]) Lookup(name string) (*StateNode[C], bool) {
	n, ok := m.nodes[name]
	return n, ok
}

// TimeInState reports how long the active node has been occupied, zero if
// the machine is inactive.
func (m *Machine[C]) TimeInState() time.Duration {
	if m.current == nil {
		return 0
	}
	return time.Since(m.current.enteredAt)
}

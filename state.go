package automat

import (
	"fmt"
	"time"
)

// Hook is a side-effecting lifecycle procedure invoked with the machine's
// bound context.
type Hook[C any] func(ctx C)

// Guard decides whether a transition may fire on the current tick.
type Guard[C any] func(ctx C) bool

// rule is a directed edge to another state in the same machine. It is
// authored against a target name and resolved to a node reference exactly
// once during graph construction. A nil guard means "always fire".
type rule[C any] struct {
	targetName string
	target     *StateNode[C]
	guard      Guard[C]
}

// StateNode is a single named state: lifecycle hooks, an ordered list of
// outgoing transitions, and an optional owned nested machine. A node belongs
// to exactly one machine.
type StateNode[C any] struct {
	name  string
	owner *Machine[C]

	onEnter Hook[C]
	onStay  Hook[C]
	onExit  Hook[C]

	// Evaluation order is authoring order; the first rule whose guard
	// passes wins and later rules are not consulted.
	rules []*rule[C]

	nested *Machine[C]

	enteredAt time.Time
}

// NewState creates an unattached state node. Attach it with
// Machine.Register, or use a Config or Builder instead of assembling nodes
// by hand.
func NewState[C any](name string) *StateNode[C] {
	return &StateNode[C]{name: name}
}

// Name returns the node's name, unique within its owning machine.
func (n *StateNode[C]) Name() string {
	return n.name
}

// OnEnter sets the hook invoked when the node is entered.
func (n *StateNode[C]) OnEnter(h Hook[C]) *StateNode[C] {
	n.onEnter = h
	return n
}

// OnStay sets the hook invoked on every tick the node remains active and no
// transition fires.
func (n *StateNode[C]) OnStay(h Hook[C]) *StateNode[C] {
	n.onStay = h
	return n
}

// OnExit sets the hook invoked when the node is exited.
func (n *StateNode[C]) OnExit(h Hook[C]) *StateNode[C] {
	n.onExit = h
	return n
}

// Permit adds an unguarded transition to the named target. It always fires,
// so any rule added after it is unreachable.
func (n *StateNode[C]) Permit(target string) *StateNode[C] {
	n.rules = append(n.rules, &rule[C]{targetName: target})
	return n
}

// PermitIf adds a transition to the named target that fires when guard
// returns true. Rules are evaluated in the order they were added.
func (n *StateNode[C]) PermitIf(target string, guard Guard[C]) *StateNode[C] {
	n.rules = append(n.rules, &rule[C]{targetName: target, guard: guard})
	return n
}

// Nest attaches a nested machine. The nested machine is started with this
// node's context when the node is entered and fully exited when the node is
// left.
func (n *StateNode[C]) Nest(sub *Machine[C]) *StateNode[C] {
	n.nested = sub
	return n
}

// Nested returns the owned nested machine, or nil.
func (n *StateNode[C]) Nested() *Machine[C] {
	return n.nested
}

// TimeInState reports how long the node has been continuously active. Zero
// if the node is not the active node of its machine.
func (n *StateNode[C]) TimeInState() time.Duration {
	if n.owner == nil || n.owner.current != n {
		return 0
	}
	return time.Since(n.enteredAt)
}

// init resolves transition target names against the owner's name table and
// recursively resolves any nested machine. It must run after every sibling
// has been registered, so that forward references resolve.
func (n *StateNode[C]) init(owner *Machine[C]) error {
	for _, r := range n.rules {
		target, ok := owner.nodes[r.targetName]
		if !ok {
			return fmt.Errorf("state %q: transition to %q: %w", n.name, r.targetName, ErrBrokenTransitionTarget)
		}
		r.target = target
	}
	if n.nested != nil {
		if n.nested.observer == nil {
			n.nested.observer = owner.observer
		}
		return n.nested.ResolveAll()
	}
	return nil
}

// enter records entry and runs the enter hook, then activates the nested
// machine's own initial node with the same context. Entry is unconditional;
// no guards are evaluated here.
func (n *StateNode[C]) enter(ctx C) {
	n.enteredAt = time.Now()
	if n.onEnter != nil {
		n.onEnter(ctx)
	}
	if n.nested != nil {
		n.nested.Start(ctx)
	}
}

// step is the per-tick decision. The first rule whose guard is absent or
// true selects the next node; in that case neither the stay hook nor the
// nested machine runs. If no rule fires, the stay hook runs, the nested
// machine ticks once, and the node reports itself as unchanged.
func (n *StateNode[C]) step(ctx C) *StateNode[C] {
	for _, r := range n.rules {
		if r.guard == nil || r.guard(ctx) {
			return r.target
		}
	}
	if n.onStay != nil {
		n.onStay(ctx)
	}
	if n.nested != nil {
		n.nested.Tick()
	}
	return n
}

// exit unwinds the nested machine first, then runs the exit hook.
func (n *StateNode[C]) exit(ctx C) {
	if n.nested != nil {
		n.nested.Exit()
	}
	if n.onExit != nil {
		n.onExit(ctx)
	}
}

package automat

import "fmt"

// Config is the declarative authoring surface: a tree of state descriptors
// compiled into a fully resolved machine by Build. It is one of two sugar
// layers over the machine's two-phase construction contract; the fluent
// Builder is the other, and both produce identical graphs.
type Config[C any] struct {
	// ID names the machine in observer notifications.
	ID string
	// Initial designates the state entered by Start. Required at the top
	// level; nested machines default to their first child.
	Initial string
	States  []StateConfig[C]
}

// StateConfig describes one state. A descriptor with Children builds a
// nested machine owned by the state.
type StateConfig[C any] struct {
	Name    string
	OnEnter Hook[C]
	OnStay  Hook[C]
	OnExit  Hook[C]
	// Transitions are evaluated in slice order; the first whose guard
	// passes wins.
	Transitions []TransitionConfig[C]
	// Initial overrides the nested machine's initial state. Defaults to
	// the first child in authoring order. Setting it without Children is a
	// configuration error.
	Initial  string
	Children []StateConfig[C]
}

// TransitionConfig describes one outgoing edge. A nil Guard always fires.
type TransitionConfig[C any] struct {
	Target string
	Guard  Guard[C]
}

// Build assembles the configuration into a machine, ready for Start. No
// partially resolved machine is ever returned: any graph error aborts the
// whole construction.
func (c Config[C]) Build(opts ...Option[C]) (*Machine[C], error) {
	if len(c.States) == 0 {
		return nil, fmt.Errorf("machine %q has no states: %w", c.ID, ErrInvalidConfiguration)
	}
	if c.Initial == "" {
		return nil, fmt.Errorf("machine %q has no initial state designation: %w", c.ID, ErrInvalidConfiguration)
	}

	m := New[C](c.ID, opts...)

	// Phase 1: register every node in the tree, so that transitions may
	// reference siblings declared later.
	for _, sc := range c.States {
		if err := buildState(m, sc); err != nil {
			return nil, err
		}
	}

	if err := m.DesignateInitial(c.Initial); err != nil {
		return nil, err
	}

	// Phase 2: resolve the whole tree.
	if err := m.ResolveAll(); err != nil {
		return nil, err
	}
	return m, nil
}

// buildState constructs a node from its descriptor and registers it,
// recursively building a nested machine when the descriptor has children.
func buildState[C any](m *Machine[C], sc StateConfig[C]) error {
	n := NewState[C](sc.Name)
	n.onEnter = sc.OnEnter
	n.onStay = sc.OnStay
	n.onExit = sc.OnExit
	for _, tc := range sc.Transitions {
		if tc.Guard == nil {
			n.Permit(tc.Target)
		} else {
			n.PermitIf(tc.Target, tc.Guard)
		}
	}

	if len(sc.Children) > 0 {
		sub := New[C](m.id + "/" + sc.Name)
		for _, cc := range sc.Children {
			if err := buildState(sub, cc); err != nil {
				return err
			}
		}
		initial := sc.Initial
		if initial == "" {
			initial = sc.Children[0].Name
		}
		if err := sub.DesignateInitial(initial); err != nil {
			return err
		}
		n.Nest(sub)
	} else if sc.Initial != "" {
		return fmt.Errorf("state %q designates initial %q but has no children: %w", sc.Name, sc.Initial, ErrInvalidConfiguration)
	}

	return m.Register(n)
}

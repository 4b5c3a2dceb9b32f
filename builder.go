package automat

// Builder is the fluent authoring surface. States are created or retrieved
// by name, may reference targets declared later, and compile into the same
// graph a Config would produce.
//
//	b := automat.NewBuilder[*World]("enemy")
//	b.State("idle").OnStay(rest).PermitIf("hunt", playerNear)
//	b.State("hunt").OnEnter(roar).PermitIf("idle", playerLost)
//	m, err := b.Initial("idle").Build()
type Builder[C any] struct {
	id      string
	states  []*StateBuilder[C]
	byName  map[string]*StateBuilder[C]
	initial string
	opts    []Option[C]
}

// StateBuilder configures one state of a Builder.
type StateBuilder[C any] struct {
	b           *Builder[C]
	name        string
	onEnter     Hook[C]
	onStay      Hook[C]
	onExit      Hook[C]
	transitions []TransitionConfig[C]
	sub         *Builder[C]
}

// NewBuilder creates a builder for a machine with the given id.
func NewBuilder[C any](id string, opts ...Option[C]) *Builder[C] {
	return &Builder[C]{
		id:     id,
		byName: make(map[string]*StateBuilder[C]),
		opts:   opts,
	}
}

// State creates or retrieves the state with the given name.
func (b *Builder[C]) State(name string) *StateBuilder[C] {
	if sb, ok := b.byName[name]; ok {
		return sb
	}
	sb := &StateBuilder[C]{b: b, name: name}
	b.byName[name] = sb
	b.states = append(b.states, sb)
	return sb
}

// Initial designates the machine's initial state.
func (b *Builder[C]) Initial(name string) *Builder[C] {
	b.initial = name
	return b
}

// Build compiles the authored states into a resolved machine. It fails with
// the same graph errors a Config would: unknown initial state, broken
// transition targets, or an empty machine.
func (b *Builder[C]) Build() (*Machine[C], error) {
	return b.config().Build(b.opts...)
}

// config lowers the builder into the declarative form.
func (b *Builder[C]) config() Config[C] {
	cfg := Config[C]{ID: b.id, Initial: b.initial}
	for _, sb := range b.states {
		cfg.States = append(cfg.States, sb.config())
	}
	return cfg
}

// OnEnter sets the state's enter hook.
func (sb *StateBuilder[C]) OnEnter(h Hook[C]) *StateBuilder[C] {
	sb.onEnter = h
	return sb
}

// OnStay sets the state's stay hook.
func (sb *StateBuilder[C]) OnStay(h Hook[C]) *StateBuilder[C] {
	sb.onStay = h
	return sb
}

// OnExit sets the state's exit hook.
func (sb *StateBuilder[C]) OnExit(h Hook[C]) *StateBuilder[C] {
	sb.onExit = h
	return sb
}

// Permit adds an unguarded transition to the named target.
func (sb *StateBuilder[C]) Permit(target string) *StateBuilder[C] {
	sb.transitions = append(sb.transitions, TransitionConfig[C]{Target: target})
	return sb
}

// PermitIf adds a guarded transition to the named target. Transitions fire
// in the order they were added.
func (sb *StateBuilder[C]) PermitIf(target string, guard Guard[C]) *StateBuilder[C] {
	sb.transitions = append(sb.transitions, TransitionConfig[C]{Target: target, Guard: guard})
	return sb
}

// Nested returns the builder for this state's nested machine, creating it on
// first use. The nested machine's initial state defaults to its first
// authored state unless Initial is called on the sub-builder.
func (sb *StateBuilder[C]) Nested() *Builder[C] {
	if sb.sub == nil {
		sb.sub = NewBuilder[C](sb.b.id + "/" + sb.name)
	}
	return sb.sub
}

func (sb *StateBuilder[C]) config() StateConfig[C] {
	sc := StateConfig[C]{
		Name:        sb.name,
		OnEnter:     sb.onEnter,
		OnStay:      sb.onStay,
		OnExit:      sb.onExit,
		Transitions: sb.transitions,
	}
	if sb.sub != nil {
		sc.Initial = sb.sub.initial
		for _, child := range sb.sub.states {
			sc.Children = append(sc.Children, child.config())
		}
	}
	return sc
}

package automat

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is the file-loadable authoring surface. It mirrors Config but
// references hooks and guards by name; a Registry supplies the actual
// procedures at build time.
//
//	id: enemy
//	initial: idle
//	states:
//	  - name: idle
//	    onStay: rest
//	    transitions:
//	      - target: hunt
//	        guard: playerNear
//	  - name: hunt
//	    onEnter: roar
//	    transitions:
//	      - target: idle
//	        guard: playerLost
type Definition struct {
	ID      string     `yaml:"id"`
	Initial string     `yaml:"initial,omitempty"`
	States  []StateDef `yaml:"states"`
}

// StateDef describes one state of a Definition.
type StateDef struct {
	Name        string          `yaml:"name"`
	OnEnter     string          `yaml:"onEnter,omitempty"`
	OnStay      string          `yaml:"onStay,omitempty"`
	OnExit      string          `yaml:"onExit,omitempty"`
	Transitions []TransitionDef `yaml:"transitions,omitempty"`
	Initial     string          `yaml:"initial,omitempty"`
	Children    []StateDef      `yaml:"children,omitempty"`
}

// TransitionDef describes one outgoing edge of a StateDef.
type TransitionDef struct {
	Target string `yaml:"target"`
	Guard  string `yaml:"guard,omitempty"`
}

// ParseDefinition decodes a YAML machine definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return &d, nil
}

// Registry binds the hook and guard names used in a Definition to
// procedures over the context type.
type Registry[C any] struct {
	hooks  map[string]Hook[C]
	guards map[string]Guard[C]
}

// NewRegistry creates an empty registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		hooks:  make(map[string]Hook[C]),
		guards: make(map[string]Guard[C]),
	}
}

// RegisterHook binds a name usable in onEnter, onStay and onExit fields.
func (r *Registry[C]) RegisterHook(name string, h Hook[C]) *Registry[C] {
	r.hooks[name] = h
	return r
}

// RegisterGuard binds a name usable in transition guard fields.
func (r *Registry[C]) RegisterGuard(name string, g Guard[C]) *Registry[C] {
	r.guards[name] = g
	return r
}

func (r *Registry[C]) hook(name string) (Hook[C], error) {
	if name == "" {
		return nil, nil
	}
	h, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("hook %q is not registered: %w", name, ErrInvalidConfiguration)
	}
	return h, nil
}

func (r *Registry[C]) guard(name string) (Guard[C], error) {
	if name == "" {
		return nil, nil
	}
	g, ok := r.guards[name]
	if !ok {
		return nil, fmt.Errorf("guard %q is not registered: %w", name, ErrInvalidConfiguration)
	}
	return g, nil
}

// BuildDefinition lowers a Definition into a Config using the registry's
// bindings and assembles the machine. Unregistered hook or guard names are
// configuration errors, reported before any graph is constructed.
func BuildDefinition[C any](d *Definition, reg *Registry[C], opts ...Option[C]) (*Machine[C], error) {
	cfg := Config[C]{ID: d.ID, Initial: d.Initial}
	for _, sd := range d.States {
		sc, err := lowerStateDef(sd, reg)
		if err != nil {
			return nil, err
		}
		cfg.States = append(cfg.States, sc)
	}
	return cfg.Build(opts...)
}

func lowerStateDef[C any](sd StateDef, reg *Registry[C]) (StateConfig[C], error) {
	sc := StateConfig[C]{Name: sd.Name, Initial: sd.Initial}

	var err error
	if sc.OnEnter, err = reg.hook(sd.OnEnter); err != nil {
		return sc, fmt.Errorf("state %q: %w", sd.Name, err)
	}
	if sc.OnStay, err = reg.hook(sd.OnStay); err != nil {
		return sc, fmt.Errorf("state %q: %w", sd.Name, err)
	}
	if sc.OnExit, err = reg.hook(sd.OnExit); err != nil {
		return sc, fmt.Errorf("state %q: %w", sd.Name, err)
	}

	for _, td := range sd.Transitions {
		guard, err := reg.guard(td.Guard)
		if err != nil {
			return sc, fmt.Errorf("state %q: %w", sd.Name, err)
		}
		sc.Transitions = append(sc.Transitions, TransitionConfig[C]{Target: td.Target, Guard: guard})
	}

	for _, cd := range sd.Children {
		child, err := lowerStateDef(cd, reg)
		if err != nil {
			return sc, err
		}
		sc.Children = append(sc.Children, child)
	}
	return sc, nil
}

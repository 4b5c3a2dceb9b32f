package automat

import "errors"

// Construction-time errors. Once a machine has been built successfully,
// ticking it never produces an error.
var (
	// ErrDuplicateStateName indicates two states were registered under the
	// same name within one machine's namespace.
	ErrDuplicateStateName = errors.New("duplicate state name")

	// ErrBrokenTransitionTarget indicates a transition references a state
	// name that does not exist in the owning machine.
	ErrBrokenTransitionTarget = errors.New("broken transition target")

	// ErrUnknownInitialState indicates the designated initial state is not
	// registered in the machine.
	ErrUnknownInitialState = errors.New("unknown initial state")

	// ErrInvalidConfiguration indicates a configuration from which no
	// machine can be assembled, e.g. one with no determinable initial state.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

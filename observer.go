package automat

import "go.uber.org/zap"

// Observer receives machine lifecycle notifications. Observers see state
// names only, never the context value, and are invoked synchronously from
// Start, Tick and Exit.
type Observer interface {
	// Started fires when a machine enters its initial state.
	Started(machine, state string)
	// Transitioned fires after the old state has exited and before the new
	// state's enter hook runs.
	Transitioned(machine, from, to string)
	// Stopped fires when a machine exits its active state.
	Stopped(machine, state string)
}

// LogObserver logs machine lifecycle events through a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver wraps a zap logger as an Observer.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Started(machine, state string) {
	o.log.Debug("machine started",
		zap.String("machine", machine),
		zap.String("state", state))
}

func (o *LogObserver) Transitioned(machine, from, to string) {
	o.log.Debug("transition",
		zap.String("machine", machine),
		zap.String("from", from),
		zap.String("to", to))
}

func (o *LogObserver) Stopped(machine, state string) {
	o.log.Debug("machine stopped",
		zap.String("machine", machine),
		zap.String("state", state))
}

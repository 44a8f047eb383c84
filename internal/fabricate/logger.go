package fabricate

// Logger receives the engine's diagnostics. *zap.SugaredLogger satisfies it.
//
// Levels used by the engine:
//   - Debugf: every selection (required, candidate pool, pick, nodes visited)
//     and crafts planned again after a concurrent change.
//   - Infof: crafts and salvages committed to an inventory.
//   - Warnf: searches truncated by the node limit, components dropped when a
//     catalog is swapped, failed notification attempts.
//   - Errorf: notifications given up on after the last attempt.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOpLogger discards everything. It is the default wherever a Logger is
// optional.
type NoOpLogger struct{}

func (NoOpLogger) Debugf(string, ...any) {}
func (NoOpLogger) Infof(string, ...any)  {}
func (NoOpLogger) Warnf(string, ...any)  {}
func (NoOpLogger) Errorf(string, ...any) {}

func NewNoOpLogger() Logger {
	return NoOpLogger{}
}

package motion

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	loggerPtr.Store(&l)
}

// SetLogger configures the logger used by the motion engine. By default the
// package is silent. Pass nil to restore the silent logger.
//
// Levels used:
//   - Debug: entries dropped because their motion was released
//   - Info: deprecated expression priority calls
//   - Warn: effect target lists longer than MaxEffectTargets, nil motions passed to Start
func SetLogger(l *zerolog.Logger) {
	if l == nil {
		nop := zerolog.Nop()
		l = &nop
	}
	loggerPtr.Store(l)
}

// Logger returns the logger used by the motion engine.
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}

package optinit

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var pkgLogger atomic.Pointer[log.Logger]

func init() {
	pkgLogger.Store(log.NewWithOptions(io.Discard, log.Options{
		Prefix: "optinit",
		Level:  log.DebugLevel,
	}))
}

// Logger returns the package logger. Declarations log at debug level; by
// default output is discarded.
func Logger() *log.Logger {
	return pkgLogger.Load()
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		pkgLogger.Store(l)
	}
}

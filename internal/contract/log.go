package contract

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger. It writes to stderr so that
// stdout stays free for results.
var Logger = newConsoleLogger(zerolog.InfoLevel)

var logMu sync.RWMutex

func newConsoleLogger(lvl zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// InitLogger resets Logger to the given level. Unknown levels fall back to info.
func InitLogger(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	Logger = newConsoleLogger(lvl)
}

// Log returns the current logger.
func Log() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := Logger
	return &l
}

var (
	defaultExit = os.Exit
	osExit      = defaultExit // swapped in tests
)

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Log().Error().Err(err).Msg(msg)
	osExit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Log().Warn().Err(err).Msg(msg)
}

package common

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide logger, creating it on first use.
// Output goes to stderr so encoded images can be streamed on stdout.
//
// Returns:
//   - *log.Logger: the shared logger
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "stl-thumb",
		})
		logger.SetLevel(log.WarnLevel)
	})
	return logger
}

// SetLogLevel changes the level of the shared logger.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error" or "fatal"
//
// Returns:
//   - error: error if the level name is not recognized
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Logger().SetLevel(lvl)
	return nil
}

func LogDebug(msg string, args ...any) {
	Logger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...any) {
	Logger().Infof(msg, args...)
}

func LogWarn(msg string, args ...any) {
	Logger().Warnf(msg, args...)
}

func LogError(msg string, args ...any) {
	Logger().Errorf(msg, args...)
}

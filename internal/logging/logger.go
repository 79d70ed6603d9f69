package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	base = newBase()
)

// Options controls the shared logger
type Options struct {
	Level string // logrus level name, "info" when empty
	File  string // log file path; empty discards output
}

func newBase() *logrus.Logger {
	l := logrus.New()
	// The terminal belongs to the UI; nothing is written until Setup picks a sink
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return l
}

// Setup configures level and output of every component logger.
// The returned closer releases the log file.
func Setup(opts Options) (io.Closer, error) {
	levelStr := opts.Level
	if env := os.Getenv("BLOCKPALETTE_LOG_LEVEL"); env != "" {
		levelStr = env
	}
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}
	base.SetLevel(level)

	if opts.File == "" {
		base.SetOutput(io.Discard)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	base.SetOutput(file)
	return file, nil
}

// SetOutput redirects all component loggers, mainly for tests and one-shot commands
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// NewLogger returns the logger for a component.
// Loggers are cached per component and share one output.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := base.WithField("component", component)
	loggers[component] = logger
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDir        = "logs"
	fileBufferSize    = 32 * 1024
	consoleBufferSize = 1024
)

type Options struct {
	Dir   string
	Level string
	// SyncConsole mirrors entries to stderr synchronously instead of through
	// the buffered hook. The CLI uses it so log lines stay ordered with output.
	SyncConsole bool
}

type Option func(*Options)

func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

func WithLevel(level string) Option {
	return func(o *Options) { o.Level = level }
}

func WithSyncConsole() Option {
	return func(o *Options) { o.SyncConsole = true }
}

// NewLogger writes JSON entries to <dir>/<component>.log and mirrors them to
// the console. The returned closer flushes both.
func NewLogger(component string, opts ...Option) (*logrus.Logger, io.Closer, error) {
	options := &Options{
		Dir:   DefaultDir,
		Level: os.Getenv("LOG_LEVEL"),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(options.Level))

	if strings.ContainsAny(component, `/\`) || component == "" || component == ".." {
		return nil, nil, fmt.Errorf("invalid log component name %q", component)
	}
	if err := os.MkdirAll(options.Dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter, err := NewAsyncFileWriter(filepath.Join(options.Dir, component+".log"), fileBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(fileWriter)

	closers := closerChain{fileWriter}
	if options.SyncConsole {
		logger.AddHook(NewConsoleHook(os.Stderr))
	} else {
		hook := NewAsyncConsoleHook(os.Stdout, consoleBufferSize)
		logger.AddHook(hook)
		closers = append(closerChain{hook}, closers...)
	}

	return logger, closers, nil
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

type closerChain []io.Closer

func (c closerChain) Close() error {
	var first error
	for _, closer := range c {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Package logrus backs logger.Logger with sirupsen/logrus for deployments
// that already ship logrus text or JSON logs.
package logrus

import (
	"fmt"
	"io"
	"os"

	"github.com/raykavin/roadrisk/pkg/logger"
	"github.com/sirupsen/logrus"
)

const DefaultTimeLayout = "2006-01-02 15:04:05"

// Options configures the logrus logger
type Options struct {
	Level      string    // logrus level name, e.g. "info"
	TimeLayout string    // layout of the time field
	Colored    bool      // force colors in text mode
	JSON       bool      // JSON lines instead of logfmt text
	Out        io.Writer // defaults to os.Stdout
}

// Adapter exposes a logrus entry through logger.Logger
type Adapter struct {
	entry *logrus.Entry
}

var _ logger.Logger = (*Adapter)(nil)

// New builds an Adapter writing to opts.Out
func New(opts Options) (*Adapter, error) {
	if opts.Level == "" {
		opts.Level = logrus.InfoLevel.String()
	}
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	if opts.TimeLayout == "" {
		opts.TimeLayout = DefaultTimeLayout
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(opts.Out)
	l.SetLevel(level)
	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: opts.TimeLayout})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: opts.TimeLayout,
			ForceColors:     opts.Colored,
			DisableColors:   !opts.Colored,
		})
	}

	return &Adapter{entry: logrus.NewEntry(l)}, nil
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.entry.Logger.GetLevel())
}

// SetLevel implements logger.Logger. The level is shared with every logger
// derived from the same root.
func (a *Adapter) SetLevel(level logger.Level) {
	a.entry.Logger.SetLevel(toLogrusLevel(level))
}

func (a *Adapter) Trace(args ...any) { a.entry.Trace(args...) }
func (a *Adapter) Debug(args ...any) { a.entry.Debug(args...) }
func (a *Adapter) Info(args ...any)  { a.entry.Info(args...) }
func (a *Adapter) Warn(args ...any)  { a.entry.Warn(args...) }
func (a *Adapter) Error(args ...any) { a.entry.Error(args...) }

func (a *Adapter) Tracef(format string, args ...any) { a.entry.Tracef(format, args...) }
func (a *Adapter) Debugf(format string, args ...any) { a.entry.Debugf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.entry.Infof(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.entry.Warnf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.entry.Errorf(format, args...) }

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: a.entry.WithError(err)}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: a.entry.WithField(key, value)}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: a.entry.WithFields(logrus.Fields(fields))}
}

// logrus has no disabled level; panic is the quietest it offers
var levels = map[logrus.Level]logger.Level{
	logrus.PanicLevel: logger.Disabled,
	logrus.TraceLevel: logger.TraceLevel,
	logrus.DebugLevel: logger.DebugLevel,
	logrus.InfoLevel:  logger.InfoLevel,
	logrus.WarnLevel:  logger.WarnLevel,
	logrus.ErrorLevel: logger.ErrorLevel,
}

func toLevel(level logrus.Level) logger.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toLogrusLevel(level logger.Level) logrus.Level {
	for ll, l := range levels {
		if l == level {
			return ll
		}
	}
	return logrus.InfoLevel
}

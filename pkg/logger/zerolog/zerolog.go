// Package zerolog backs logger.Logger with rs/zerolog and a colored console writer.
package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const DefaultTimeLayout = "2006-01-02 15:04:05"

// Options configures the console logger
type Options struct {
	Level      string    // zerolog level name, e.g. "info"
	TimeLayout string    // layout of the timestamp column
	Colored    bool      // ANSI colors in console mode
	JSON       bool      // raw JSON lines instead of the console layout
	Out        io.Writer // defaults to os.Stdout
}

// New builds an Adapter writing to opts.Out
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if opts.Level == "" {
		opts.Level = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	if opts.TimeLayout == "" {
		opts.TimeLayout = DefaultTimeLayout
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	var output io.Writer = opts.Out
	if !opts.JSON {
		output = zerolog.ConsoleWriter{
			Out:             opts.Out,
			NoColor:         !opts.Colored,
			TimeFormat:      opts.TimeLayout,
			FormatLevel:     formatLevel(opts.Colored),
			FormatMessage:   formatMessage,
			FormatCaller:    formatCaller,
			FormatTimestamp: func(i any) string { return formatTimestamp(i, opts.TimeLayout) },
		}
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return NewAdapter(zl), nil
}

func formatLevel(colored bool) zerolog.Formatter {
	return func(i any) string {
		level, ok := i.(string)
		if !ok {
			return "[UNK]"
		}

		tag, paint := levelTag(level)
		if !colored {
			return tag
		}
		return paint(tag)
	}
}

func levelTag(level string) (string, func(string, ...any) string) {
	switch level {
	case zerolog.LevelTraceValue:
		return "[TRC]", term.Cyanf
	case zerolog.LevelDebugValue:
		return "[DBG]", term.Cyanf
	case zerolog.LevelInfoValue:
		return "[INF]", term.Greenf
	case zerolog.LevelWarnValue:
		return "[WAR]", term.Yellowf
	case zerolog.LevelErrorValue:
		return "[ERR]", term.Redf
	case zerolog.LevelFatalValue:
		return "[FTL]", term.Redf
	case zerolog.LevelPanicValue:
		return "[PAN]", term.Redf
	default:
		return "[UNK]", term.Whitef
	}
}

func formatMessage(i any) string {
	const width = 64

	msg, ok := i.(string)
	if !ok || len(msg) == 0 {
		return ">"
	}
	if len(msg) < width {
		msg += strings.Repeat(" ", width-len(msg))
	}
	return "> " + msg
}

func formatCaller(i any) string {
	const fileWidth = 16

	name, ok := i.(string)
	if !ok || len(name) == 0 {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(name), ":")
	if !found {
		return name
	}
	if len(file) > fileWidth {
		file = file[:fileWidth]
	}
	return fmt.Sprintf("[%-*s:%4s]", fileWidth, file, line)
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return fmt.Sprintf("[%v]", i)
	}

	ts, err := time.ParseInLocation(zerolog.TimeFieldFormat, raw, time.Local)
	if err != nil {
		return "[" + raw + "]"
	}
	return "[" + ts.In(time.Local).Format(layout) + "]"
}

// Package logging builds the zerolog loggers used by the vectree binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Output formats accepted by Config.Format.
const (
	FormatAuto    = "auto"    // console on a terminal, JSON otherwise
	FormatConsole = "console" // human readable, coloured
	FormatJSON    = "json"
)

// Config selects level, format and destination of a logger.
type Config struct {
	Level  string    // trace, debug, info, warn, error; empty means info
	Format string    // FormatAuto, FormatConsole or FormatJSON; empty means auto
	Out    io.Writer // nil means os.Stderr
}

// New returns a logger for cfg, tagged with the component name.
func New(cfg Config, component string) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer
	switch strings.ToLower(cfg.Format) {
	case "", FormatAuto:
		if isTerminal(out) {
			w = consoleWriter(out)
		} else {
			w = out
		}
	case FormatConsole:
		w = consoleWriter(out)
	case FormatJSON:
		w = out
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger(), nil
}

// isTerminal reports whether out is a file attached to a terminal.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// level badge colours
var levelColors = map[string]string{
	"trace": "#8d8d8d",
	"debug": "#3ddbd9",
	"info":  "#4589ff",
	"warn":  "#ff832b",
	"error": "#da1e28",
	"fatal": "#ff0000",
	"panic": "#ff0000",
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05.000",
		FormatLevel: func(i any) string {
			lvl := strings.ToLower(fmt.Sprint(i))
			color, ok := levelColors[lvl]
			if !ok {
				color = levelColors["trace"]
			}
			if len(lvl) > 3 {
				lvl = lvl[:3]
			}
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")).
				Background(lipgloss.Color(color)).
				Padding(0, 1).
				Render(strings.ToUpper(lvl))
		},
	}
}

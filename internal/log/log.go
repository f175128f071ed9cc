// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(u *url.URL) slog.Value {
		return slog.StringValue(u.String())
	}),
	slogformatter.FormatByType(func(a net.Addr) slog.Value {
		return slog.GroupValue(
			slog.String("network", a.Network()),
			slog.String("addr", a.String()),
		)
	}),
)

// Def is a default logger.
var Def = New(os.Stdout, "console", slog.LevelInfo)

// Dev is a developer logger.
var Dev = New(os.Stdout, "dev", slog.LevelDebug)

// New builds a logger writing to w. Format is "console" or "dev".
func New(w io.Writer, format string, level slog.Leveler) *slog.Logger {
	switch format {
	case "dev":
		return slog.New(newHandler(
			devslog.NewHandler(w, &devslog.Options{
				HandlerOptions: &slog.HandlerOptions{
					AddSource: true,
					Level:     level,
				},
				SortKeys:   true,
				TimeFormat: time.RFC3339Nano,
			}),
		))
	default:
		return slog.New(newHandler(
			console.NewHandler(w, &console.HandlerOptions{
				Level:      level,
				TimeFormat: time.RFC3339Nano,
			}),
		))
	}
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

type calcValue struct{ fn func() any }

func (v calcValue) LogValue() slog.Value {
	cv := v.fn()
	switch cv := cv.(type) {
	case slog.Value:
		return cv
	default:
		return slog.AnyValue(cv)
	}
}

// CalcValue returns a value logger that computes a value using a fn.
func CalcValue(fn func() any) slog.LogValuer { return calcValue{fn} }

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w at the given level ("debug", "info",
// "warn", "error"). Format "json" emits one JSON object per line; anything
// else uses the human console writer. The logger also becomes the global
// one used through github.com/rs/zerolog/log.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !strings.EqualFold(format, "json") {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
			cw.NoColor = true
		}
		out = cw
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(lvl)
	log.Logger = logger
	return logger
}

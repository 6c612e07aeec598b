// Package logx configures the process-wide zerolog logger. Every line
// carries the service name; packages tag their own lines with Component.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `split_words:"true" default:"shopping-assistant"`
}

var DefaultConfig = &Config{
	Service: "shopping-assistant",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger. Pretty output goes to stderr so it never
// mixes with a terminal conversation on stdout.
func Init(opts ...Config) {
	conf := safe(opts...)

	var out io.Writer = os.Stdout
	if conf.PrettyFormat {
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })
	}
	log.Logger = build(out, conf)
}

func build(out io.Writer, conf *Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if conf.Service != "" {
		ctx = ctx.Str("service", conf.Service)
	}
	if conf.Debug {
		ctx = ctx.Caller()
	}
	return ctx.Stack().Logger()
}

// Component returns the global logger tagged with the emitting package. It
// reads log.Logger on every call so it follows a later Init or Silence.
func Component(name string) *zerolog.Logger {
	l := log.Logger.With().Str("component", name).Logger()
	return &l
}

// Silence routes the global logger to io.Discard. The terminal front end
// uses it so log lines do not interleave with the conversation.
func Silence() {
	log.Logger = zerolog.New(io.Discard)
}

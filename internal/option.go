package internal

import (
	"io"

	"github.com/starford/raido/internal/check"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	registry check.Registry
	mode     string
	note     string
	out      io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRegistry replaces the validator registry wholesale, overriding the
// defaults built from the configuration.
func WithRegistry(reg check.Registry) Option {
	return func(a *application) {
		a.registry = reg
	}
}

// WithMode overrides the configured scan mode for a one-shot check.
func WithMode(mode string) Option {
	return func(a *application) {
		a.mode = mode
	}
}

// WithNote sets the note to scan when the mode is "current".
func WithNote(note string) Option {
	return func(a *application) {
		a.note = note
	}
}

// WithOutput redirects the check report, overriding the configured output.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

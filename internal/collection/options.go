package collection

import "log/slog"

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for AddedAt and entry ids.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithTokens sets the source of entry id tokens.
func WithTokens(t TokenSource) Option {
	return func(e *Engine) {
		e.tokens = t
	}
}

// WithLogger sets the logger for recovered load and persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

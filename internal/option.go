package internal

import "time"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config

	// invalidateThrottle is the minimum gap between highlights.invalidated
	// events; zero keeps the broker default.
	invalidateThrottle time.Duration
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithInvalidateThrottle sets how often SSE clients are told to re-fetch
// highlights. Non-positive values keep the default.
func WithInvalidateThrottle(d time.Duration) Option {
	return func(a *application) {
		if d > 0 {
			a.invalidateThrottle = d
		}
	}
}

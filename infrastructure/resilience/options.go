package resilience

import "time"

// Option configures the world loader.
type Option func(*LoaderConfig)

// WithRetry enables or disables retries.
func WithRetry(enabled bool) Option {
	return func(c *LoaderConfig) {
		c.RetryEnabled = enabled
	}
}

// WithRetryAttempts sets the maximum read attempts.
func WithRetryAttempts(n int) Option {
	return func(c *LoaderConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *LoaderConfig) {
		c.RetryInitialDelay = d
	}
}

// WithRetryMaxDelay caps the retry delay.
func WithRetryMaxDelay(d time.Duration) Option {
	return func(c *LoaderConfig) {
		c.RetryMaxDelay = d
	}
}

// WithMalformedRetry sets whether undecodable specs are retried.
func WithMalformedRetry(enabled bool) Option {
	return func(c *LoaderConfig) {
		c.RetryMalformed = enabled
	}
}

// WithReadFile replaces the file reader.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(c *LoaderConfig) {
		c.ReadFile = fn
	}
}

// NewWorldLoaderWithOptions creates a loader with the given options.
func NewWorldLoaderWithOptions(opts ...Option) *WorldLoader {
	config := DefaultLoaderConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewWorldLoader(config)
}

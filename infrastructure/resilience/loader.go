// Package resilience provides resilient world loading using fortify.
package resilience

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	domainconfig "github.com/felixgeelhaar/kara-go/domain/config"
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// LoaderConfig configures the world loader.
type LoaderConfig struct {
	// RetryEnabled turns retries on. When off, a world is read once.
	RetryEnabled bool

	// RetryMaxAttempts is the maximum number of read attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between attempts.
	RetryInitialDelay time.Duration

	// RetryMaxDelay caps the backoff delay.
	RetryMaxDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// RetryMalformed retries specs that fail to decode, as when an editor
	// is still writing the file.
	RetryMalformed bool

	// ReadFile reads a world file. Nil means os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// DefaultLoaderConfig returns a configuration with sensible defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		RetryEnabled:           true,
		RetryMaxAttempts:       3,
		RetryInitialDelay:      50 * time.Millisecond,
		RetryMaxDelay:          time.Second,
		RetryBackoffMultiplier: 2.0,
		RetryMalformed:         true,
	}
}

// LoaderConfigFrom maps the resilience section of a game config.
func LoaderConfigFrom(rc domainconfig.RetryConfig) LoaderConfig {
	cfg := DefaultLoaderConfig()
	cfg.RetryEnabled = rc.Enabled
	if rc.MaxAttempts > 0 {
		cfg.RetryMaxAttempts = rc.MaxAttempts
	}
	if rc.InitialDelay > 0 {
		cfg.RetryInitialDelay = rc.InitialDelay.Duration()
	}
	if rc.MaxDelay > 0 {
		cfg.RetryMaxDelay = rc.MaxDelay.Duration()
	}
	if rc.Multiplier >= 1 {
		cfg.RetryBackoffMultiplier = rc.Multiplier
	}
	return cfg
}

// WorldLoader reads and decodes world files. A malformed spec is retried
// with backoff since an editor may still be writing the file; a missing
// file is not.
type WorldLoader struct {
	retry    retry.Retry[*world.Grid]
	enabled  bool
	readFile func(path string) ([]byte, error)
}

// NewWorldLoader creates a new world loader.
func NewWorldLoader(config LoaderConfig) *WorldLoader {
	attempts := config.RetryMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	readFile := config.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	nonRetryable := []error{fs.ErrNotExist, fs.ErrPermission}
	if !config.RetryMalformed {
		nonRetryable = append(nonRetryable, world.ErrMalformedSpec)
	}

	return &WorldLoader{
		retry: retry.New[*world.Grid](retry.Config{
			MaxAttempts:        attempts,
			InitialDelay:       config.RetryInitialDelay,
			MaxDelay:           config.RetryMaxDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         config.RetryBackoffMultiplier,
			NonRetryableErrors: nonRetryable,
		}),
		enabled:  config.RetryEnabled && attempts > 1,
		readFile: readFile,
	}
}

// NewDefaultWorldLoader creates a loader with default configuration.
func NewDefaultWorldLoader() *WorldLoader {
	return NewWorldLoader(DefaultLoaderConfig())
}

// Load reads the world file at path and decodes it into a grid.
func (l *WorldLoader) Load(ctx context.Context, path string) (*world.Grid, error) {
	if !l.enabled {
		return l.loadOnce(ctx, path)
	}
	return l.retry.Do(ctx, func(ctx context.Context) (*world.Grid, error) {
		return l.loadOnce(ctx, path)
	})
}

func (l *WorldLoader) loadOnce(ctx context.Context, path string) (*world.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world %s: %w", path, err)
	}
	grid, err := world.ParseSpec(strings.TrimRight(string(data), "\r\n"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, nil
}

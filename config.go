package pagecache

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RetentionPolicy selects how (or whether) the SecondLevelShadow
// retains clean entries after they are evicted from the primary
// cache.
type RetentionPolicy int

const (
	// RetentionNone disables the shadow entirely.
	RetentionNone RetentionPolicy = iota
	// RetentionSoft retains evicted clean entries in a bounded
	// secondary LRU tier, released under its own memory pressure.
	RetentionSoft
	// RetentionWeak retains evicted clean entries via the runtime's
	// weak-reference facility, released at the next garbage
	// collection that finds no other strong reference.
	RetentionWeak
)

// defaultMinRecords is the floor on resident entries during eviction,
// preventing an empty or near-empty cache from thrashing.
const defaultMinRecords = 16

// defaultMaxMemoryQuanta is used when WithMaxMemoryQuanta is omitted.
const defaultMaxMemoryQuanta = 1 << 20

// Config is the construction-time configuration for a Cache. Use the
// With* options with New rather than constructing Config directly —
// that keeps the zero-value defaults and the validation pass in one
// place.
type Config struct {
	MaxMemoryQuanta    uint64          `validate:"min=0"`
	RetentionPolicy    RetentionPolicy `validate:"oneof=0 1 2"`
	MinRecords         int             `validate:"min=0"`
	SoftCapacityQuanta uint64
}

// Option is a functional-options modifier for Config, applied in New.
type Option func(*Config)

// WithMaxMemoryQuanta sets the initial eviction budget, in the same
// units as every Entry's MemorySize.
func WithMaxMemoryQuanta(n uint64) Option {
	return func(c *Config) { c.MaxMemoryQuanta = n }
}

// WithRetentionPolicy enables the SecondLevelShadow with the given
// policy. Defaults to RetentionNone.
func WithRetentionPolicy(p RetentionPolicy) Option {
	return func(c *Config) { c.RetentionPolicy = p }
}

// WithMinRecords overrides the default floor of 16 resident entries
// below which eviction will not remove further records.
func WithMinRecords(n int) Option {
	return func(c *Config) { c.MinRecords = n }
}

// WithSoftCapacityQuanta sets the secondary tier's own budget when
// RetentionPolicy is RetentionSoft. Defaults to a quarter of
// MaxMemoryQuanta.
func WithSoftCapacityQuanta(n uint64) Option {
	return func(c *Config) { c.SoftCapacityQuanta = n }
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		MaxMemoryQuanta: defaultMaxMemoryQuanta,
		MinRecords:      defaultMinRecords,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.RetentionPolicy == RetentionSoft && cfg.SoftCapacityQuanta == 0 {
		cfg.SoftCapacityQuanta = cfg.MaxMemoryQuanta / 4
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("pagecache: invalid configuration: %w", err)
	}
	return cfg, nil
}

package htrie

// Option mutates a Config in place; NewWithOptions starts from the
// env-resolved defaults and applies each Option in order, mirroring
// Config's role but letting callers set only what they care about
// without constructing the whole struct by hand.
type Option func(*Config)

// OptWorkers overrides the worker count (see Config.Workers).
func OptWorkers(workers int) Option {
	return func(cfg *Config) { cfg.Workers = workers }
}

// OptRootBits overrides the root node's fanout width in bits.
func OptRootBits(bits uint32) Option {
	return func(cfg *Config) { cfg.RootBits = bits }
}

// OptFixedLength selects fixed-length mode with the given record size and
// storage flags, overriding variable-length mode.
func OptFixedLength(recLen int, flags Flags) Option {
	return func(cfg *Config) {
		cfg.RecLen = recLen
		cfg.Flags = flags
	}
}

// OptDBSize bounds the default allocator's byte budget.
func OptDBSize(size int64) Option {
	return func(cfg *Config) { cfg.DBSize = size }
}

// OptAllocator installs an external Allocator in place of the default
// ArenaAllocator.
func OptAllocator(a Allocator) Option {
	return func(cfg *Config) { cfg.Allocator = a }
}

// NewWithOptions builds a Store from environment defaults overridden by
// opts, an alternative to New(*Config) for callers that only want to
// override a couple of knobs.
func NewWithOptions(opts ...Option) (*Store, error) {
	cfg := resolveConfig(nil)
	for _, opt := range opts {
		opt(cfg)
	}
	return newStore(cfg)
}

package htrie

import (
	"os"
	"runtime"
	"strconv"
)

// Flags selects the record-storage mode (spec.md §3 "Mode flags").
type Flags uint32

const (
	// FlagInplace stores the record body directly inside the bucket
	// slot. Only valid when RecLen > 0.
	FlagInplace Flags = 1 << iota
)

// Config represents the set of values for configuring a Store. Note that
// changing the values in this structure has no effect on existing Stores;
// they are copied on instance creation.
type Config struct {
	// Workers indicates how many workers may call Store operations
	// concurrently; it sizes the per-worker epoch/reclamation array.
	// Defaults to GOMAXPROCS.
	Workers int
	// RootBits is the root node's fanout in bits; must be a multiple of
	// 4 and >= 4. Defaults to 8.
	RootBits uint32
	// RecLen is the fixed record length; 0 selects variable-length mode.
	RecLen int
	// Flags selects inplace/indirect storage (fixed-length mode only).
	Flags Flags
	// DBSize bounds the default ArenaAllocator's byte budget; 0 means
	// unbounded. Ignored if Allocator is set.
	DBSize int64
	// Allocator overrides the default ArenaAllocator with an external
	// slab allocator (spec.md §6).
	Allocator Allocator
}

func resolveConfig(c *Config) *Config {
	cfg := &Config{}
	if c != nil {
		*cfg = *c
	}
	if env := os.Getenv("HTRIE_WORKERS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			cfg.Workers = val
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if env := os.Getenv("HTRIE_ROOT_BITS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			cfg.RootBits = uint32(val)
		}
	}
	if cfg.RootBits == 0 {
		cfg.RootBits = 8
	}
	if env := os.Getenv("HTRIE_DB_SIZE"); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			cfg.DBSize = val
		}
	}
	return cfg
}

func (cfg *Config) validate() error {
	if cfg.RootBits%bits != 0 || cfg.RootBits < bits {
		return ErrInvalidConfig
	}
	if cfg.RecLen < 0 {
		return ErrInvalidConfig
	}
	// spec.md §3: "Fixed-length inplace: Record length ∈ (0, TDB_BLK_SZ/2]".
	// Indirect fixed-length mode has no such bound - the record lives
	// outside the bucket slot, so nothing about bucket layout constrains
	// its size.
	if cfg.Flags&FlagInplace != 0 && (cfg.RecLen == 0 || cfg.RecLen > BlockSize/2) {
		return ErrInvalidConfig
	}
	return nil
}

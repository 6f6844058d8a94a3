package vm

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrNilProgram indicates an engine was constructed without a program
	ErrNilProgram = errors.New("nil program")

	// ErrUnknownKind indicates an unrecognised engine kind
	ErrUnknownKind = errors.New("unknown engine kind")

	// ErrUnknownMode indicates an unrecognised match mode
	ErrUnknownMode = errors.New("unknown match mode")
)

// Config tunes engine behaviour without changing what a program matches.
//
// Example:
//
//	config := vm.DefaultConfig()
//	config.Memoize = true // bound the backtracker to O(n*m) steps
//	bt, err := vm.NewBacktrackerWithConfig(prog, config)
type Config struct {
	// Dedup drops a lock-step thread that reaches a program counter already
	// claimed by a higher-priority thread at the same position. This bounds
	// the bale by the program size. With Dedup off the lock-step engine keeps
	// every duplicate, and a repetition whose body can match empty loops
	// forever during epsilon-closure.
	// Default: true
	Dedup bool

	// Memoize makes the backtracker skip (pc, position) pairs it has already
	// explored, trading O(n*m) bits of memory for O(n*m) time.
	// Default: false
	Memoize bool

	// MaxMemoBits caps the memo bit vector. Larger searches fall back to a
	// hash set. Zero selects the default.
	// Default: 2M bits (256KB)
	MaxMemoBits int
}

const defaultMaxMemoBits = 256 * 1024 * 8

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Dedup:       true,
		Memoize:     false,
		MaxMemoBits: defaultMaxMemoBits,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxMemoBits < 0 {
		return &ConfigError{
			Field:   "MaxMemoBits",
			Message: "must not be negative",
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxMemoBits == 0 {
		c.MaxMemoBits = defaultMaxMemoBits
	}
	return c
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("vm: invalid config: %s: %s", e.Field, e.Message)
}

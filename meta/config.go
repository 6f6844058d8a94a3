// Package meta turns a pattern into a searcher: it compiles the pattern,
// selects an engine, builds a prefilter from the program's leading
// literals, and drives unanchored searches over the input.
//
// Engines only match from a given position. Find retries at every scalar
// boundary, asking the prefilter (when there is one) to skip positions
// where no match can begin.
package meta

import (
	"log/slog"

	"github.com/coregx/twinvm/literal"
	"github.com/coregx/twinvm/program"
	"github.com/coregx/twinvm/vm"
)

// Config controls compilation and search.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Engine = vm.KindBacktrack
//	config.VM.Memoize = true
//	engine, err := meta.CompileWithConfig(`(\w+)@(\w+)`, config)
type Config struct {
	// Engine selects the execution engine.
	// Default: vm.KindLockStep
	Engine vm.Kind

	// VM tunes the selected engine.
	VM vm.Config

	// Compiler configures pattern compilation.
	Compiler program.CompilerConfig

	// EnablePrefilter enables literal-based candidate skipping.
	// Default: true
	EnablePrefilter bool

	// Literals limits leading-literal extraction.
	Literals literal.ExtractorConfig

	// Logger receives debug records about compilation and searches.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:          vm.KindLockStep,
		VM:              vm.DefaultConfig(),
		Compiler:        program.DefaultCompilerConfig(),
		EnablePrefilter: true,
		Literals:        literal.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Engine: vm.KindBacktrack or vm.KindLockStep
//   - Compiler.MaxRecursionDepth: 10 to 1,000
//   - Literals.MaxLiterals: 1 to 1,000 (with EnablePrefilter)
//   - Literals.MaxLiteralLen: 1 to 256 (with EnablePrefilter)
func (c Config) Validate() error {
	if c.Engine != vm.KindBacktrack && c.Engine != vm.KindLockStep {
		return &ConfigError{
			Field:   "Engine",
			Message: "unknown engine " + c.Engine.String(),
		}
	}
	if err := c.VM.Validate(); err != nil {
		return err
	}
	if c.Compiler.MaxRecursionDepth < 10 || c.Compiler.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "Compiler.MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}
	if c.EnablePrefilter {
		if c.Literals.MaxLiterals < 1 || c.Literals.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "Literals.MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.Literals.MaxLiteralLen < 1 || c.Literals.MaxLiteralLen > 256 {
			return &ConfigError{
				Field:   "Literals.MaxLiteralLen",
				Message: "must be between 1 and 256",
			}
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "twinvm: invalid config: " + e.Field + ": " + e.Message
}

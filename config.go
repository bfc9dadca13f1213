package regrep

import "github.com/coregx/regrep/syntax"

// Config controls pattern compilation limits.
//
// Example:
//
//	config := regrep.DefaultConfig()
//	config.MaxGroups = 9 // only groups reachable by \1..\9
//	re, err := regrep.CompileWithConfig(`(a)(b)`, config)
type Config struct {
	// MaxNestingDepth caps how deeply groups may nest.
	// Default: 1000
	MaxNestingDepth int

	// MaxGroups caps the number of capturing groups in a pattern.
	// Default: 1000
	MaxGroups int
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() Config {
	return Config{
		MaxNestingDepth: syntax.DefaultMaxNestingDepth,
		MaxGroups:       syntax.DefaultMaxGroups,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxNestingDepth: 1 to 10,000
//   - MaxGroups: 1 to 10,000
func (c Config) Validate() error {
	if c.MaxNestingDepth < 1 || c.MaxNestingDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxNestingDepth",
			Message: "must be between 1 and 10,000",
		}
	}
	if c.MaxGroups < 1 || c.MaxGroups > 10_000 {
		return &ConfigError{
			Field:   "MaxGroups",
			Message: "must be between 1 and 10,000",
		}
	}
	return nil
}

func (c Config) options() syntax.Options {
	return syntax.Options{
		MaxNestingDepth: c.MaxNestingDepth,
		MaxGroups:       c.MaxGroups,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}

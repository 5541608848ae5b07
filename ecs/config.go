package ecs

import "fmt"

const (
	DefaultInitialCapacity   = 1024
	DefaultMaxComponentTypes = 64

	// MaxComponentTypesLimit bounds MaxComponentTypes so entity masks stay small.
	MaxComponentTypesLimit = 4096
)

// Config holds the construction parameters of a world.
type Config struct {
	// InitialCapacity is the number of entity slots allocated up front.
	// Capacity doubles whenever it is exhausted.
	InitialCapacity int `toml:"initial_capacity" yaml:"initial_capacity"`

	// MaxComponentTypes is the hard cap on distinct component types. It also
	// fixes the width of every entity bitmask.
	MaxComponentTypes int `toml:"max_component_types" yaml:"max_component_types"`
}

// DefaultConfig returns the configuration used for zero-valued fields.
func DefaultConfig() Config {
	return Config{
		InitialCapacity:   DefaultInitialCapacity,
		MaxComponentTypes: DefaultMaxComponentTypes,
	}
}

// Validate reports configuration values that cannot produce a working world.
func (c Config) Validate() error {
	if c.InitialCapacity <= 0 {
		return fmt.Errorf("initial_capacity must be positive, got %d", c.InitialCapacity)
	}
	if c.MaxComponentTypes <= 0 || c.MaxComponentTypes > MaxComponentTypesLimit {
		return fmt.Errorf("max_component_types must be in [1, %d], got %d", MaxComponentTypesLimit, c.MaxComponentTypes)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.InitialCapacity <= 0 {
		c.InitialCapacity = DefaultInitialCapacity
	}
	if c.MaxComponentTypes <= 0 {
		c.MaxComponentTypes = DefaultMaxComponentTypes
	}
	if c.MaxComponentTypes > MaxComponentTypesLimit {
		c.MaxComponentTypes = MaxComponentTypesLimit
	}
	return c
}

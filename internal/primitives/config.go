// Config holds the build/init-time limits of a scheduler.
//
// Config values are fixed once the scheduler is created; nothing here is
// tunable at runtime. Validation ensures a positive thread capacity, a stack
// size at or above MinStackSize, and a stack budget that can hold at least
// one stack.
package primitives

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxThreads is the default number of thread slots, thread 0 included.
	DefaultMaxThreads = 64
	// DefaultStackSize is the default per-thread stack buffer size in bytes.
	DefaultStackSize = 64 * 1024
	// MinStackSize is the smallest usable stack buffer.
	MinStackSize = 2 * 1024
)

// Config defines the limits of one scheduler.
type Config struct {
	// MaxThreads is the capacity of the thread table, thread 0 included.
	MaxThreads int `json:"maxThreads" yaml:"maxThreads"`
	// StackSize is the size of the stack buffer owned by each spawned thread.
	StackSize int `json:"stackSize" yaml:"stackSize"`
	// StackLimit caps the bytes of stack held at once. Zero means unlimited.
	StackLimit int64 `json:"stackLimit,omitempty" yaml:"stackLimit,omitempty"`
	// Reclaim lets a full table reuse the slots of terminated threads.
	// Thread ids are never reused either way.
	Reclaim bool `json:"reclaim,omitempty" yaml:"reclaim,omitempty"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		MaxThreads: DefaultMaxThreads,
		StackSize:  DefaultStackSize,
	}
}

// Validate validates the configuration:
// - MaxThreads of at least 1 (thread 0 occupies a slot)
// - StackSize of at least MinStackSize
// - StackLimit either zero or large enough for one stack
func (c Config) Validate() error {
	if c.MaxThreads < 1 {
		return fmt.Errorf("maxThreads must be at least 1, got %d", c.MaxThreads)
	}
	if c.StackSize < MinStackSize {
		return fmt.Errorf("stackSize %d is below the minimum of %d bytes", c.StackSize, MinStackSize)
	}
	if c.StackLimit < 0 {
		return errors.New("stackLimit cannot be negative")
	}
	if c.StackLimit != 0 && c.StackLimit < int64(c.StackSize) {
		return fmt.Errorf("stackLimit %d cannot hold a single %d byte stack", c.StackLimit, c.StackSize)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Package workload drives a shared tree with a seeded, randomized mix of operations.
// It backs the profiler binary and doubles as a soak test for the container.
package workload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/INLOpen/vectree"
)

// MaxConfigSize bounds the size of a workload file.
const MaxConfigSize = 1 << 20

// Operation names, as used in Mix and in Result.Ops.
const (
	OpInsert   = "insert"
	OpRemove   = "remove"
	OpFork     = "fork"
	OpMerge    = "merge"
	OpMove     = "move"
	OpTraverse = "traverse"
)

// Operations lists every operation a workload can issue, in a stable order.
var Operations = []string{OpInsert, OpRemove, OpFork, OpMerge, OpMove, OpTraverse}

// Config describes a workload. The zero value is not valid; start from Default.
type Config struct {
	Seed    uint64 `yaml:"seed"`
	Items   int    `yaml:"items"`   // total operations across all workers
	Workers int    `yaml:"workers"` // goroutines sharing the tree
	// ValidateEvery runs a full structural check after every n operations of a
	// worker. 0 disables it.
	ValidateEvery int `yaml:"validate_every"`
	// Handles bounds how many Indexes each worker remembers for later operations.
	Handles int            `yaml:"handles"`
	Mix     map[string]int `yaml:"mix"` // relative weight per operation
	Growth  Growth         `yaml:"growth"`
}

// Growth holds the pool options of the tree under test.
type Growth struct {
	Capacity int     `yaml:"capacity"`
	Factor   float64 `yaml:"factor"`
	Slots    int     `yaml:"slots"`
}

// Default returns the workload used when no file is given.
func Default() Config {
	return Config{
		Seed:    1,
		Items:   2_000_000,
		Workers: 4,
		Handles: 4096,
		Mix: map[string]int{
			OpInsert:   60,
			OpRemove:   8,
			OpFork:     10,
			OpMerge:    10,
			OpMove:     10,
			OpTraverse: 2,
		},
		Growth: Growth{Capacity: vectree.DefaultCapacity, Factor: vectree.DefaultGrowthFactor},
	}
}

// Load reads a YAML workload from path. Fields missing from the file keep their
// Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to stat workload %s: %w", path, err)
	}
	if info.Size() > MaxConfigSize {
		return cfg, fmt.Errorf("workload %s is %d bytes, limit is %d", path, info.Size(), MaxConfigSize)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read workload %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML workload over Default and validates it. A mix given in the
// document replaces the default mix as a whole.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	defaultMix := cfg.Mix
	cfg.Mix = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse workload: %w", err)
	}
	if len(cfg.Mix) == 0 {
		cfg.Mix = defaultMix
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Items <= 0 {
		errs = append(errs, fmt.Errorf("items must be positive, got %d", c.Items))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.ValidateEvery < 0 {
		errs = append(errs, fmt.Errorf("validate_every must not be negative, got %d", c.ValidateEvery))
	}
	if c.Handles <= 0 {
		errs = append(errs, fmt.Errorf("handles must be positive, got %d", c.Handles))
	}
	total := 0
	for op, w := range c.Mix {
		if !isOperation(op) {
			errs = append(errs, fmt.Errorf("unknown operation %q in mix", op))
		}
		if w < 0 {
			errs = append(errs, fmt.Errorf("weight of %s must not be negative, got %d", op, w))
		}
		total += w
	}
	if total <= 0 {
		errs = append(errs, errors.New("mix must have a positive total weight"))
	}
	if c.Growth.Capacity < 0 {
		errs = append(errs, fmt.Errorf("growth.capacity must not be negative, got %d", c.Growth.Capacity))
	}
	if c.Growth.Factor != 0 && c.Growth.Factor <= 1 {
		errs = append(errs, fmt.Errorf("growth.factor must be greater than 1, got %g", c.Growth.Factor))
	}
	if c.Growth.Slots < 0 {
		errs = append(errs, fmt.Errorf("growth.slots must not be negative, got %d", c.Growth.Slots))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid workload: %w", errors.Join(errs...))
	}
	return nil
}

// Options translates Growth into pool options for vectree.New.
func (g Growth) Options() []vectree.Option {
	opts := []vectree.Option{vectree.WithCapacity(g.Capacity)}
	if g.Factor > 1 {
		opts = append(opts, vectree.WithGrowthFactor(g.Factor))
	}
	if g.Slots > 0 {
		opts = append(opts, vectree.WithGrowthSlots(g.Slots))
	}
	return opts
}

func isOperation(op string) bool {
	for _, o := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

package sort_experiment

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// ExperimentConfig bounds a sweep: sizes 2^0..2^MaxExponent, TrialsPerSize
// timed trials per size, values generated in [MinValue, MinValue+MaxValue].
type ExperimentConfig struct {
	MaxExponent   uint  `toml:"max_exponent" yaml:"max_exponent"`
	TrialsPerSize uint  `toml:"trials_per_size" yaml:"trials_per_size"`
	MinValue      int64 `toml:"min_value" yaml:"min_value"`
	MaxValue      int64 `toml:"max_value" yaml:"max_value"`
	Seed          int64 `toml:"seed" yaml:"seed"`
}

func DefaultExperimentConfig() *ExperimentConfig {
	return &ExperimentConfig{
		MaxExponent:   DefaultMaxExponent,
		TrialsPerSize: DefaultTrialsPerSize,
		MinValue:      DefaultMinValue,
		MaxValue:      DefaultMaxValue,
	}
}

func (c *ExperimentConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if c.TrialsPerSize < 1 {
		return fmt.Errorf("%w: trials_per_size must be at least 1, got %d", ErrInvalidConfig, c.TrialsPerSize)
	}
	if c.MaxExponent > MaxSupportedExponent {
		return fmt.Errorf("%w: max_exponent [%d] is greater than %d", ErrInvalidConfig, c.MaxExponent, MaxSupportedExponent)
	}
	if c.MaxValue < 0 || c.MaxValue == math.MaxInt64 {
		return fmt.Errorf("%w: max_value [%d] out of range [0, %d)", ErrInvalidConfig, c.MaxValue, int64(math.MaxInt64))
	}
	// min_value+max_value is the largest generated value and must fit an int64.
	if c.MinValue > 0 && c.MaxValue > math.MaxInt64-c.MinValue {
		return fmt.Errorf("%w: min_value [%d] + max_value [%d] overflows int64", ErrInvalidConfig, c.MinValue, c.MaxValue)
	}
	return nil
}

// Sizes lists the tested input sizes in ascending order.
func (c *ExperimentConfig) Sizes() []int {
	sizes := make([]int, 0, c.MaxExponent+1)
	for exp := uint(0); exp <= c.MaxExponent; exp++ {
		sizes = append(sizes, 1<<exp)
	}
	return sizes
}

func (c *ExperimentConfig) Clone() *ExperimentConfig {
	clone := *c
	return &clone
}

type ReportConfig struct {
	Layout string `toml:"layout" yaml:"layout"`
	Color  bool   `toml:"color" yaml:"color"`
}

// ToolConfig is the config file shared by the sortexp commands.
type ToolConfig struct {
	Experiment  ExperimentConfig  `toml:"experiment" yaml:"experiment"`
	Persistence PersistenceConfig `toml:"persistence" yaml:"persistence"`
	Report      ReportConfig      `toml:"report" yaml:"report"`
}

func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		Experiment:  *DefaultExperimentConfig(),
		Persistence: *DefaultPersistenceConfig(),
		Report:      ReportConfig{Layout: string(LayoutAuto)},
	}
}

// LoadToolConfig decodes a TOML file, or YAML when the extension is .yaml or
// .yml, on top of DefaultToolConfig. Keys missing from the file keep their
// defaults.
func LoadToolConfig(path string) (*ToolConfig, error) {
	config := DefaultToolConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml config %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal toml config %s: %w", path, err)
		}
	}

	if err := config.Experiment.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

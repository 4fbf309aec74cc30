package sort_experiment

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	test "testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *test.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Unable to write config: %v", err)
	}
	return path
}

func TestLoadToolConfigTOML(t *test.T) {
	path := writeConfig(t, "config.toml", `
[experiment]
max_exponent = 6
trials_per_size = 3
seed = 1234

[persistence]
name = "bench.db"

[report]
layout = "aligned"
`)

	config, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig returned error: %v", err)
	}

	expected := ExperimentConfig{
		MaxExponent:   6,
		TrialsPerSize: 3,
		MinValue:      DefaultMinValue,
		MaxValue:      DefaultMaxValue,
		Seed:          1234,
	}
	if diff := cmp.Diff(expected, config.Experiment); diff != "" {
		t.Errorf("Unexpected experiment config (-want +got):\n%s", diff)
	}
	if config.Persistence.Name != "bench.db" {
		t.Errorf("Expected database name bench.db, got %s", config.Persistence.Name)
	}
	if !config.Persistence.Enabled || config.Persistence.Path != "." {
		t.Errorf("Expected persistence defaults to be kept, got %+v", config.Persistence)
	}
	if config.Report.Layout != "aligned" {
		t.Errorf("Expected aligned layout, got %s", config.Report.Layout)
	}
}

func TestLoadToolConfigYAML(t *test.T) {
	path := writeConfig(t, "config.yaml", `
experiment:
  max_exponent: 4
  min_value: -100
persistence:
  enabled: false
`)

	config, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig returned error: %v", err)
	}
	if config.Experiment.MaxExponent != 4 || config.Experiment.MinValue != -100 {
		t.Errorf("Unexpected experiment config: %+v", config.Experiment)
	}
	if config.Experiment.TrialsPerSize != DefaultTrialsPerSize {
		t.Errorf("Expected default trials %d, got %d", DefaultTrialsPerSize, config.Experiment.TrialsPerSize)
	}
	if config.Persistence.Enabled {
		t.Errorf("Expected persistence to be disabled")
	}
}

func TestLoadToolConfigInvalid(t *test.T) {
	path := writeConfig(t, "config.toml", "[experiment]\ntrials_per_size = 0\n")
	if _, err := LoadToolConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	path = writeConfig(t, "broken.toml", "[experiment\n")
	if _, err := LoadToolConfig(path); err == nil {
		t.Errorf("Expected a decode error")
	}
}

func TestLoadToolConfigMissing(t *test.T) {
	_, err := LoadToolConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestExperimentConfigValidate(t *test.T) {
	cases := []struct {
		name   string
		config *ExperimentConfig
		valid  bool
	}{
		{"default", DefaultExperimentConfig(), true},
		{"nil", nil, false},
		{"zero trials", &ExperimentConfig{TrialsPerSize: 0, MaxValue: 10}, false},
		{"exponent limit", &ExperimentConfig{TrialsPerSize: 1, MaxExponent: MaxSupportedExponent}, true},
		{"exponent too large", &ExperimentConfig{TrialsPerSize: 1, MaxExponent: MaxSupportedExponent + 1}, false},
		{"negative max", &ExperimentConfig{TrialsPerSize: 1, MaxValue: -1}, false},
		{"max overflow", &ExperimentConfig{TrialsPerSize: 1, MaxValue: math.MaxInt64}, false},
		{"range overflow", &ExperimentConfig{TrialsPerSize: 1, MinValue: math.MaxInt64 / 2, MaxValue: math.MaxInt64 - 1}, false},
		{"range at limit", &ExperimentConfig{TrialsPerSize: 1, MinValue: 1, MaxValue: math.MaxInt64 - 1}, true},
		{"negative min wide range", &ExperimentConfig{TrialsPerSize: 1, MinValue: math.MinInt64, MaxValue: math.MaxInt64 - 1}, true},
	}

	for _, c := range cases {
		err := c.config.Validate()
		if c.valid && err != nil {
			t.Errorf("%s: expected valid, got %v", c.name, err)
		}
		if !c.valid && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", c.name, err)
		}
	}
}

func TestExperimentConfigSizes(t *test.T) {
	config := &ExperimentConfig{MaxExponent: 4}
	if diff := cmp.Diff([]int{1, 2, 4, 8, 16}, config.Sizes()); diff != "" {
		t.Errorf("Unexpected sizes (-want +got):\n%s", diff)
	}
}

func TestExperimentConfigClone(t *test.T) {
	original := DefaultExperimentConfig()
	clone := original.Clone()
	if diff := cmp.Diff(original, clone); diff != "" {
		t.Errorf("Clone differs (-original +clone):\n%s", diff)
	}

	clone.MaxExponent = 2
	if original.MaxExponent != DefaultMaxExponent {
		t.Errorf("Modifying the clone changed the original")
	}
}

func TestPersistenceConfigDSN(t *test.T) {
	config := &PersistenceConfig{
		Name:          "runs.db",
		Path:          "data",
		SQLitePragmas: []string{"busy_timeout(5000)"},
		SQLiteOptions: []string{"_txlock=immediate"},
	}
	expected := filepath.Join("data", "runs.db") + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	if dsn := config.DSN(); dsn != expected {
		t.Errorf("Expected %s, got %s", expected, dsn)
	}

	config.SQLitePragmas, config.SQLiteOptions = nil, nil
	if dsn := config.DSN(); dsn != filepath.Join("data", "runs.db") {
		t.Errorf("Expected a bare path, got %s", dsn)
	}
}

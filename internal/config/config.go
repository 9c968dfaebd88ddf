// Package config loads the duphash YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	dh "github.com/wallarm/duphash"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration. Every field has a usable default,
// so an empty file is valid.
type Config struct {
	Input       InputConfig   `yaml:"input"`
	Strict      StrictConfig  `yaml:"strict"`
	Output      OutputConfig  `yaml:"output"`
	Clusters    ClusterConfig `yaml:"clusters"`
	Concurrency int           `yaml:"concurrency"` // files processed in parallel
}

// InputConfig describes the record layout, see duphash.Format.
type InputConfig struct {
	Delimiter      string `yaml:"delimiter"` // "whitespace" or a single character
	HashColumn     int    `yaml:"hash_column"`
	ProducerColumn int    `yaml:"producer_column"`
	StrategyColumn int    `yaml:"strategy_column"`
	SkipHeader     bool   `yaml:"skip_header"`
	Comment        string `yaml:"comment"`
}

// StrictConfig enables detection of non-contiguous hash groups.
type StrictConfig struct {
	Enabled bool `yaml:"enabled"`
	// Window bounds the number of remembered closed hashes. 0 remembers all.
	Window int `yaml:"window"`
}

// OutputConfig controls where results go when several inputs are given.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ClusterConfig configures the clusters command.
type ClusterConfig struct {
	MinRatio float64 `yaml:"min_ratio"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	f := dh.DefaultFormat()
	return &Config{
		Input: InputConfig{
			Delimiter:      f.Delimiter,
			HashColumn:     f.HashColumn,
			ProducerColumn: f.ProducerColumn,
			StrategyColumn: f.StrategyColumn,
		},
		Clusters:    ClusterConfig{MinRatio: 0.5},
		Concurrency: runtime.NumCPU(),
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to io.EOF and keeps the defaults.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the input layout.
func (c *Config) Validate() error {
	if err := c.Format().Validate(); err != nil {
		return fmt.Errorf("%w: input: %w", ErrInvalidConfig, err)
	}
	if c.Strict.Window < 0 {
		return fmt.Errorf("%w: strict.window must be >= 0, got %d", ErrInvalidConfig, c.Strict.Window)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be >= 1, got %d", ErrInvalidConfig, c.Concurrency)
	}
	if c.Clusters.MinRatio < 0 || c.Clusters.MinRatio > 1 {
		return fmt.Errorf("%w: clusters.min_ratio must be within [0, 1], got %v", ErrInvalidConfig, c.Clusters.MinRatio)
	}
	return nil
}

// Format converts the input section to a duphash.Format.
func (c *Config) Format() dh.Format {
	return dh.Format{
		Delimiter:      c.Input.Delimiter,
		HashColumn:     c.Input.HashColumn,
		ProducerColumn: c.Input.ProducerColumn,
		StrategyColumn: c.Input.StrategyColumn,
		SkipHeader:     c.Input.SkipHeader,
		Comment:        c.Input.Comment,
	}
}

// AggregatorOptions returns the strict-mode options, if any.
func (c *Config) AggregatorOptions() []dh.Option {
	if !c.Strict.Enabled {
		return nil
	}
	if c.Strict.Window > 0 {
		return []dh.Option{dh.WithStrictWindow(c.Strict.Window)}
	}
	return []dh.Option{dh.WithStrictContiguity()}
}

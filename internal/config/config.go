package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/menta2k/image-augmentor/internal/utils"
	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/transform"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// EnvPrefix selects environment overrides, e.g. AUGMENT__SCALE_RANGE__MAX=2
const EnvPrefix = "AUGMENT__"

// Config holds the application configuration
type Config struct {
	InputDir      string           `koanf:"input_dir" yaml:"input_dir"`
	OutputDir     string           `koanf:"output_dir" yaml:"output_dir"`
	NumVariations int              `koanf:"num_variations" yaml:"num_variations"`
	Operations    []string         `koanf:"operations" yaml:"operations"`
	TrainRatio    float64          `koanf:"train_ratio" yaml:"train_ratio"`
	ScaleRange    ScaleRangeConfig `koanf:"scale_range" yaml:"scale_range"`
	CropRatio     float64          `koanf:"crop_ratio" yaml:"crop_ratio"`
	Output        OutputConfig     `koanf:"output" yaml:"output"`
	Seed          int64            `koanf:"seed" yaml:"seed"`
}

// ScaleRangeConfig is the inclusive range scale factors are drawn from
type ScaleRangeConfig struct {
	Min float64 `koanf:"min" yaml:"min"`
	Max float64 `koanf:"max" yaml:"max"`
}

// OutputConfig holds configuration for output encoding
type OutputConfig struct {
	Format   string `koanf:"format" yaml:"format"`
	Quality  int    `koanf:"quality" yaml:"quality"`
	Lossless bool   `koanf:"lossless" yaml:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		OutputDir:     "./augmented",
		NumVariations: 5,
		Operations:    []string{string(types.Rotate)},
		TrainRatio:    0.8,
		ScaleRange:    ScaleRangeConfig{Min: 0.8, Max: 1.5},
		CropRatio:     0.8,
		Output: OutputConfig{
			Format:  "jpg",
			Quality: 95,
		},
	}
}

// LoadFromFile merges a YAML file (if path is not empty) with AUGMENT__ environment
// variables. Keys missing from both keep their default.
func LoadFromFile(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(k, &cfg)
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// applyDefaults fills keys that were not set. Presence is checked on the koanf tree
// because zero is a legal train_ratio and seed.
func applyDefaults(k *koanf.Koanf, c *Config) {
	d := Default()
	if !k.Exists("output_dir") {
		c.OutputDir = d.OutputDir
	}
	if !k.Exists("num_variations") {
		c.NumVariations = d.NumVariations
	}
	if !k.Exists("operations") {
		c.Operations = d.Operations
	}
	c.Operations = splitList(c.Operations)
	if !k.Exists("train_ratio") {
		c.TrainRatio = d.TrainRatio
	}
	if !k.Exists("scale_range.min") {
		c.ScaleRange.Min = d.ScaleRange.Min
	}
	if !k.Exists("scale_range.max") {
		c.ScaleRange.Max = d.ScaleRange.Max
	}
	if !k.Exists("crop_ratio") {
		c.CropRatio = d.CropRatio
	}
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
	if c.Output.Quality == 0 {
		c.Output.Quality = d.Output.Quality
	}
}

// splitList accepts both YAML lists and comma separated values from env or flags
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SetOperations replaces the operation list from a comma separated string
func (c *Config) SetOperations(list string) {
	c.Operations = splitList([]string{list})
}

// SaveToFile writes the configuration as YAML
func (c *Config) SaveToFile(filename string) error {
	if err := utils.EnsureDir(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if !utils.DirExists(c.InputDir) {
		return fmt.Errorf("input_dir %q does not exist or is not a directory", c.InputDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.NumVariations < 1 {
		return fmt.Errorf("num_variations must be positive")
	}
	if len(c.Operations) == 0 {
		return fmt.Errorf("at least one operation is required (rotate, scale, crop)")
	}
	if _, err := types.ParseOperationSet(c.Operations); err != nil {
		return fmt.Errorf("operations: %w", err)
	}
	if math.IsNaN(c.TrainRatio) || c.TrainRatio < 0 || c.TrainRatio > 1 {
		return fmt.Errorf("train_ratio must be between 0 and 1")
	}
	if !finite(c.ScaleRange.Min) || !finite(c.ScaleRange.Max) ||
		c.ScaleRange.Min <= 0 || c.ScaleRange.Max < c.ScaleRange.Min {
		return fmt.Errorf("scale_range must satisfy 0 < min <= max")
	}
	if math.IsNaN(c.CropRatio) || c.CropRatio <= 0 || c.CropRatio >= 1 {
		return fmt.Errorf("crop_ratio must be between 0 and 1 (exclusive)")
	}
	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png or webp")
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	return nil
}

// AugmentConfig converts to the orchestrator configuration
func (c *Config) AugmentConfig() augment.Config {
	return augment.Config{
		Transform: transform.Config{
			ScaleRange: transform.ScaleRange{Min: c.ScaleRange.Min, Max: c.ScaleRange.Max},
			CropRatio:  c.CropRatio,
		},
		Output: augment.OutputConfig{
			Format:   c.Output.Format,
			Quality:  c.Output.Quality,
			Lossless: c.Output.Lossless,
		},
		Seed:       c.Seed,
		Extensions: utils.SupportedExtensions,
	}
}

// Request converts to a run request
func (c *Config) Request() (augment.Request, error) {
	ops, err := types.ParseOperationSet(c.Operations)
	if err != nil {
		return augment.Request{}, err
	}
	return augment.Request{
		InputDir:      c.InputDir,
		OutputRoot:    c.OutputDir,
		NumVariations: c.NumVariations,
		Operations:    ops,
		TrainRatio:    c.TrainRatio,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ResolvePath returns explicit when set, otherwise GetConfigPath if that file
// exists, otherwise "" (defaults and environment only).
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path := GetConfigPath(); utils.FileExists(path) {
		return path
	}
	return ""
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./augment.yaml"
	}
	return filepath.Join(home, ".config", "image-augmentor", "config.yaml")
}

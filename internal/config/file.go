package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config represents comp.yaml. Command-line flags override every field.
type Config struct {
	// Format of printed results: text, json or yaml. Defaults to text.
	Format string `yaml:"format,omitempty"`

	// Limit stops evaluation after this many results. Zero means no limit.
	Limit int `yaml:"limit,omitempty"`

	// DB is the path of a SQLite database backing query(...).
	// Relative paths are resolved against the directory of comp.yaml.
	DB string `yaml:"db,omitempty"`

	// VarsFile is a YAML, JSON or HCL file of variables, resolved like DB.
	VarsFile string `yaml:"vars_file,omitempty"`

	// Vars are variables declared inline. VarsFile and -var flags take
	// precedence over them.
	Vars map[string]any `yaml:"vars,omitempty"`

	// Color of diagnostics: auto, always or never. Defaults to auto.
	Color string `yaml:"color,omitempty"`

	// LogLevel is debug, info, warn or error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Codegen configures -emit go.
	Codegen CodegenConfig `yaml:"codegen,omitempty"`
}

// CodegenConfig describes the function emitted for a comprehension.
type CodegenConfig struct {
	Package    string        `yaml:"package,omitempty"`
	Func       string        `yaml:"func,omitempty"`
	ElemType   string        `yaml:"elem_type,omitempty"`
	ResultType string        `yaml:"result_type,omitempty"`
	Params     []ParamConfig `yaml:"params,omitempty"`
}

// ParamConfig is one parameter of the emitted function.
type ParamConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	validFormats   = []string{FormatText, FormatJSON, FormatYAML}
	validColors    = []string{ColorAuto, ColorAlways, ColorNever}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns the configuration used when no comp.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a comp.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses comp.yaml content from bytes. The path argument is
// used for error messages and to resolve relative file references.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	dir := filepath.Dir(path)
	cfg.DB = resolve(dir, cfg.DB)
	cfg.VarsFile = resolve(dir, cfg.VarsFile)
	return &cfg, nil
}

// FindConfig returns the path of comp.yaml in dir, or "" when there is none.
func FindConfig(dir string) (string, error) {
	candidate := filepath.Join(dir, DefaultConfigFile)
	_, err := os.Stat(candidate)
	switch {
	case err == nil:
		return candidate, nil
	case os.IsNotExist(err):
		return "", nil
	}
	return "", fmt.Errorf("checking %s: %w", candidate, err)
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Format != "" && !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("%s: format must be one of %v, got %q", path, validFormats, c.Format)
	}
	if c.Color != "" && !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("%s: color must be one of %v, got %q", path, validColors, c.Color)
	}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("%s: log_level must be one of %v, got %q", path, validLogLevels, c.LogLevel)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%s: limit must not be negative", path)
	}
	for i, p := range c.Codegen.Params {
		if p.Name == "" || p.Type == "" {
			return fmt.Errorf("%s: codegen.params[%d]: name and type are required", path, i)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Format == "" {
		c.Format = FormatText
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

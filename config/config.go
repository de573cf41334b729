// Package config loads the optional .sharp.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/sharp/format"
)

// FileName is the settings file searched for from the working directory
// upwards.
const FileName = ".sharp.yaml"

var validate = validator.New()

type Config struct {
	Indent  int    `yaml:"indent" validate:"min=1,max=16"`
	Tabs    bool   `yaml:"tabs"`
	Newline string `yaml:"newline" validate:"oneof=auto lf crlf"`
	Log     Log    `yaml:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

type Log struct {
	// Verbosity follows commonlog: 0 is errors only, 5 is debug.
	Verbosity int    `yaml:"verbosity" validate:"min=0,max=5"`
	Path      string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Indent:  4,
		Newline: "auto",
	}
}

// Load reads the configuration at path. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid config: %s: value %v fails %q", e.Namespace(), e.Value(), e.ActualTag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Find looks for FileName in dir and its parents and loads the first one
// found. Without a file it returns the defaults.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// FormatOptions returns the formatter settings.
func (c *Config) FormatOptions() format.Options {
	opts := format.Options{IndentSize: c.Indent, UseTabs: c.Tabs}
	switch c.Newline {
	case "lf":
		opts.Newline = "\n"
	case "crlf":
		opts.Newline = "\r\n"
	}
	return opts
}

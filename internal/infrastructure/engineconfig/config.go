// Package engineconfig loads formengine.yaml, the top-level CLI/engine
// configuration file, grounded on the teacher's internal/config package: YAML
// decoding with gopkg.in/yaml.v3 followed by struct-tag validation with
// go-playground/validator, the same load-then-validate idiom as
// internal/infrastructure/config.YAMLLoader uses for pipeline documents.
package engineconfig

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of formengine.yaml.
type Config struct {
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	FormRoot string `yaml:"form_root" validate:"required"`
	CacheDir string `yaml:"cache_dir,omitempty"`

	// DefaultFunctions/DefaultComponents name registrations a host process
	// should wire before compiling any form, e.g. a module path to a Go
	// plugin or an in-process registration key. They are decoded and kept
	// here only: neither the engine nor cmd/formengine interprets them.
	DefaultFunctions  []string `yaml:"default_functions,omitempty"`
	DefaultComponents []string `yaml:"default_components,omitempty"`
}

// Defaults returns a Config with every optional field filled in, used when no
// formengine.yaml is present.
func Defaults() Config {
	return Config{LogLevel: "info", FormRoot: ".", CacheDir: ".formengine-cache"}
}

// Load reads and validates the engine configuration file at path. A missing
// file is not an error — Defaults() is returned instead, matching the CLI's
// "works with zero configuration" expectation.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: invalid %s: %w", path, err)
	}
	return cfg, nil
}

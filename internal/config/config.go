// Package config loads the command line configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/actionbridge/internal/sample"
	"github.com/aretw0/actionbridge/pkg/policy"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "ACTIONBRIDGE_CONFIG"

// Config is the file form of the bridge settings.
type Config struct {
	Executor string `yaml:"executor" json:"executor"`
	BasePath string `yaml:"base_path" json:"base_path"`
	Policy   string `yaml:"policy" json:"policy"`
	Strict   bool   `yaml:"strict" json:"strict"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Listen   string `yaml:"listen" json:"listen"`
	Metrics  bool   `yaml:"metrics" json:"metrics"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the settings used when no file is present. The base path
// matches the bundled sample application.
func Default() Config {
	return Config{
		Executor: "router",
		BasePath: sample.BasePath,
		Policy:   policy.NameDefault,
		Strict:   true,
		Endpoint: "/js",
		Listen:   ":8080",
		Metrics:  true,
		LogLevel: "info",
	}
}

// Load reads a YAML (or .json) file over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the bridge would reject at startup.
func (c Config) Validate() error {
	var errs []error
	if c.Executor == "" {
		errs = append(errs, errors.New("executor must not be empty"))
	}
	if _, err := policy.Resolve(c.Policy, nil); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.Endpoint, "/") {
		errs = append(errs, fmt.Errorf("endpoint %q must start with /", c.Endpoint))
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("base_path %q must start with /", c.BasePath))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

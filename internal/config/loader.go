package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"agentplug/pkg/logging"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// LoadConfig builds the host configuration from, in increasing priority:
// built-in defaults, <configPath>/config.yaml, then environment variables
// (including those from <configPath>/.env and ./.env).
func LoadConfig(configPath string) (Config, error) {
	if configPath == "" {
		configPath = DefaultConfigDir
	}
	cfg := GetDefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	loadDotEnv(filepath.Join(configPath, ".env"))
	loadDotEnv(".env")

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", configFilePath, err)
	}
	return cfg, nil
}

// loadDotEnv loads a .env file without overriding variables already set.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logging.Warn("ConfigLoader", "Ignoring unreadable env file %s: %v", path, err)
		return
	}
	logging.Debug("ConfigLoader", "Loaded environment from %s", path)
}

// Validate checks the fields the rest of the system relies on.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if len(cfg.Plugins.Roots) == 0 {
		errs.Add("plugins.roots", "must list at least one plugin root")
	}
	for i, root := range cfg.Plugins.Roots {
		errs.Required(fmt.Sprintf("plugins.roots[%d]", i), root)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs.Add("server.port", "must be between 1 and 65535", cfg.Server.Port)
	}
	errs.OneOf("hooks.failurePolicy", cfg.Hooks.FailurePolicy, []string{HookPolicyAbort, HookPolicyContinue})
	errs.OneOf("log.format", cfg.Log.Format, []string{logging.FormatText, logging.FormatJSON})
	if cfg.Runtime.TimeoutSeconds < 0 {
		errs.Add("runtime.timeoutSeconds", "must not be negative", cfg.Runtime.TimeoutSeconds)
	}
	return errs.Err()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for bumper.
type Config struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Files     []string        `yaml:"files"`     // Requirements documents to operate on
	Changelog ChangelogConfig `yaml:"changelog"`
}

// ProviderConfig describes the package index a run resolves versions from.
type ProviderConfig struct {
	Type           string `yaml:"type"`            // "pypi"
	IndexURL       string `yaml:"index_url"`       // Base JSON API URL, defaults to pypi.org
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
	MaxRetries     int    `yaml:"max_retries"`     // Retries on transient index failures
	GitHubToken    string `yaml:"github_token"`    // Inline, ${ENV_VAR}, or file path
}

// ChangelogConfig controls changelog discovery for bumped packages.
type ChangelogConfig struct {
	Enabled bool `yaml:"enabled"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:           "pypi",
			TimeoutSeconds: 15,
			MaxRetries:     3,
		},
		Files:     []string{"requirements.txt", "pinned.txt"},
		Changelog: ChangelogConfig{Enabled: true},
	}
}

// Load reads and parses a configuration file, expanding environment
// variables and resolving the token file path. Fields left empty keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Provider.GitHubToken = resolveToken(cfg.Provider.GitHubToken)

	if validateErr := validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// Timeout returns the provider timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".bumper.yaml",
		".bumper.yml",
		"bumper.yaml",
		"bumper.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if cfg.Provider.Type == "" {
		return errors.New("provider.type is required")
	}
	if cfg.Provider.TimeoutSeconds < 0 {
		return fmt.Errorf("provider.timeout_seconds must not be negative, got %d", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Provider.MaxRetries < 0 {
		return fmt.Errorf("provider.max_retries must not be negative, got %d", cfg.Provider.MaxRetries)
	}

	for i, file := range cfg.Files {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("files[%d] must not be blank", i)
		}
	}

	return nil
}

// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the cloudmail client.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the mail API endpoint configuration.
type APIConfig struct {
	// BaseURL is the service root. Empty uses the Graph v1.0 default.
	BaseURL string `yaml:"base_url"`
	// Mailbox scopes requests to a user; empty means the signed-in user.
	Mailbox string `yaml:"mailbox"`
	// Casing selects the wire field-name convention: "camel" or "pascal".
	Casing string `yaml:"casing"`
	// SaveToSentItems controls whether sent mail is kept in the sent folder.
	SaveToSentItems bool `yaml:"save_to_sent_items"`
}

// AuthConfig holds the OAuth2 client-credential settings.
type AuthConfig struct {
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// AuthConfigured returns true if all three client-credential fields are set.
func (c *Config) AuthConfigured() bool {
	return c.Auth.TenantID != "" &&
		c.Auth.ClientID != "" &&
		c.Auth.ClientSecret != ""
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.API.Casing = "camel"
	c.API.SaveToSentItems = true
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("CLOUDMAIL_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CLOUDMAIL_MAILBOX"); v != "" {
		c.API.Mailbox = v
	}
	if v := os.Getenv("CLOUDMAIL_CASING"); v != "" {
		c.API.Casing = strings.ToLower(v)
	}
	if v := os.Getenv("CLOUDMAIL_SAVE_TO_SENT_ITEMS"); v != "" {
		c.API.SaveToSentItems = strings.EqualFold(v, "true") || v == "1"
	}

	if v := os.Getenv("CLOUDMAIL_TENANT_ID"); v != "" {
		c.Auth.TenantID = v
	}
	if v := os.Getenv("CLOUDMAIL_CLIENT_ID"); v != "" {
		c.Auth.ClientID = v
	}
	if v := os.Getenv("CLOUDMAIL_CLIENT_SECRET"); v != "" {
		c.Auth.ClientSecret = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

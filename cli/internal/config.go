package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Context represents a named configuration context (like kubectl contexts)
type Context struct {
	Server struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout-seconds"`
	} `yaml:"server"`
	Rendering struct {
		Theme string `yaml:"theme"`
	} `yaml:"rendering"`
}

// Config represents the CLI configuration with multiple contexts
type Config struct {
	CurrentContext string              `yaml:"current-context"`
	Contexts       map[string]*Context `yaml:"contexts"`
}

// envOverrides are applied on top of the active context, so one-off runs
// against a different server need no config edits.
type envOverrides struct {
	Context        string `env:"FOLIO_CONTEXT"`
	ServerURL      string `env:"FOLIO_SERVER_URL"`
	TimeoutSeconds int    `env:"FOLIO_TIMEOUT_SECONDS"`
}

// DefaultConfig returns the default configuration with "dev" and "prod" contexts
func DefaultConfig() *Config {
	devContext := &Context{}
	devContext.Server.URL = "http://localhost:8000/api/v1"
	devContext.Server.TimeoutSeconds = 30
	devContext.Rendering.Theme = "auto"

	prodContext := &Context{}
	prodContext.Server.URL = "https://api.folionote.dev/api/v1"
	prodContext.Server.TimeoutSeconds = 30
	prodContext.Rendering.Theme = "auto"

	return &Config{
		CurrentContext: "dev",
		Contexts: map[string]*Context{
			"dev":  devContext,
			"prod": prodContext,
		},
	}
}

// GetCurrentContext returns the current active context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}

	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context %q not found", c.CurrentContext)
	}

	return ctx, nil
}

// SetCurrentContext sets the current active context
func (c *Config) SetCurrentContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	c.CurrentContext = name
	return nil
}

// AddContext adds or updates a context
func (c *Config) AddContext(name string, ctx *Context) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	c.Contexts[name] = ctx
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if name == c.CurrentContext {
		return fmt.Errorf("cannot delete current context %q", name)
	}
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	delete(c.Contexts, name)
	return nil
}

// ServerURL returns the base URL for the current context
func (c *Config) ServerURL() (string, error) {
	ctx, err := c.GetCurrentContext()
	if err != nil {
		return "", err
	}
	return ctx.Server.URL, nil
}

// Timeout returns the request timeout for the current context
func (c *Config) Timeout() time.Duration {
	ctx, err := c.GetCurrentContext()
	if err != nil || ctx.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(ctx.Server.TimeoutSeconds) * time.Second
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".folio"), nil
}

// LoadConfig loads configuration from ~/.folio, creating defaults on
// first run, then applies FOLIO_* environment overrides.
func LoadConfig() (*Config, error) {
	// A .env in the working directory is developer convenience only.
	_ = godotenv.Load()

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	var config *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config = DefaultConfig()
		if err := SaveConfig(config); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		config = &Config{}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Ensure we have a valid current context
	if config.CurrentContext == "" && len(config.Contexts) > 0 {
		for name := range config.Contexts {
			config.CurrentContext = name
			break
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) error {
	var ov envOverrides
	if err := envconfig.Process(context.Background(), &ov); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if ov.Context != "" {
		if err := config.SetCurrentContext(ov.Context); err != nil {
			return err
		}
	}

	ctx, err := config.GetCurrentContext()
	if err != nil {
		return err
	}
	if ov.ServerURL != "" {
		ctx.Server.URL = ov.ServerURL
	}
	if ov.TimeoutSeconds > 0 {
		ctx.Server.TimeoutSeconds = ov.TimeoutSeconds
	}

	return nil
}

// SaveConfig saves configuration to ~/.folio
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

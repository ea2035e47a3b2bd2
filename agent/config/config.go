package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSecretsFile is looked up next to the main configuration when no
	// explicit secrets location is given.
	DefaultSecretsFile = "secrets.yaml"
	// DefaultAPIVersion is the Azure OpenAI API version used when none is configured.
	DefaultAPIVersion = "2025-03-01-preview"
)

// Config is the agent configuration. The same shape is used for the main
// configuration file and for the secrets file overlaid on top of it.
type Config struct {
	Azure   *Azure   `yaml:"azure,omitempty" json:"azure,omitempty" toml:"azure,omitempty"`
	Agent   *Agent   `yaml:"agent,omitempty" json:"agent,omitempty" toml:"agent,omitempty"`
	MCP     *MCP     `yaml:"mcp,omitempty" json:"mcp,omitempty" toml:"mcp,omitempty"`
	Logging *Logging `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`
}

// Logging controls the CLI logger.
type Logging struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty" toml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Load reads a configuration from a local path or any URL supported by afs.
// Files ending in .toml are decoded as TOML, everything else as YAML (which
// also covers JSON).
func Load(ctx context.Context, location string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", location, err)
	}
	cfg := &Config{}
	if err := decode(location, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", location, err)
	}
	return cfg, nil
}

// LoadWithSecrets loads the main configuration, overlays the secrets file,
// loads a .env file into the process environment and finally fills any
// still-empty field from environment variables. File values always win over
// the environment.
func LoadWithSecrets(ctx context.Context, configLocation, secretsLocation string) (*Config, error) {
	cfg := &Config{}
	if configLocation != "" {
		var err error
		if cfg, err = Load(ctx, configLocation); err != nil {
			return nil, err
		}
	}
	if secretsLocation == "" {
		secretsLocation = siblingSecrets(ctx, configLocation)
	}
	if secretsLocation != "" {
		secrets, err := Load(ctx, secretsLocation)
		if err != nil {
			return nil, err
		}
		cfg.Merge(secrets)
	}
	// godotenv never overrides variables that are already set; a missing
	// .env file is not an error.
	_ = godotenv.Load()
	cfg.ApplyEnv(os.LookupEnv)
	cfg.Init()
	return cfg, nil
}

// Save writes cfg to location, encoding by extension like Load.
func Save(ctx context.Context, location string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(location) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config %q: %w", location, err)
	}
	fs := afs.New()
	if err = fs.Upload(ctx, location, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file %q: %w", location, err)
	}
	return nil
}

// Init applies defaults. It is safe to call multiple times.
func (c *Config) Init() {
	if c.Azure == nil {
		c.Azure = &Azure{}
	}
	if c.Azure.APIVersion == "" {
		c.Azure.APIVersion = DefaultAPIVersion
	}
	if c.Agent == nil {
		c.Agent = &Agent{}
	}
	c.Agent.init()
	if c.MCP == nil {
		c.MCP = &MCP{}
	}
	for name, srv := range c.MCP.Servers {
		if srv == nil {
			srv = &Server{}
			c.MCP.Servers[name] = srv
		}
		srv.Name = name
		srv.init()
	}
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the agent, MCP and logging sections. The Azure section is
// validated separately by the LLM client since several commands never talk to
// the model.
func (c *Config) Validate() error {
	if c.Agent != nil {
		if err := c.Agent.Validate(); err != nil {
			return err
		}
	}
	if c.MCP != nil {
		if err := c.MCP.Validate(); err != nil {
			return err
		}
	}
	if c.Logging != nil {
		if err := validate.Struct(c.Logging); err != nil {
			return fmt.Errorf("invalid logging config: %w", err)
		}
	}
	return nil
}

// Merge overlays non-empty values from overlay onto c.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}
	if overlay.Azure != nil {
		if c.Azure == nil {
			c.Azure = &Azure{}
		}
		c.Azure.merge(overlay.Azure)
	}
	if overlay.Agent != nil {
		if c.Agent == nil {
			c.Agent = &Agent{}
		}
		c.Agent.merge(overlay.Agent)
	}
	if overlay.MCP != nil {
		if c.MCP == nil {
			c.MCP = &MCP{}
		}
		c.MCP.merge(overlay.MCP)
	}
	if overlay.Logging != nil && overlay.Logging.Level != "" {
		if c.Logging == nil {
			c.Logging = &Logging{}
		}
		c.Logging.Level = overlay.Logging.Level
	}
}

// ApplyEnv fills empty fields from the environment using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if c.Azure == nil {
		c.Azure = &Azure{}
	}
	c.Azure.applyEnv(lookup)
}

func decode(location string, data []byte, cfg *Config) error {
	if isTOML(location) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func isTOML(location string) bool {
	return strings.EqualFold(path.Ext(location), ".toml")
}

// siblingSecrets returns DefaultSecretsFile next to a local configuration
// file when it exists.
func siblingSecrets(ctx context.Context, configLocation string) string {
	if configLocation == "" || strings.Contains(configLocation, "://") {
		return ""
	}
	candidate := filepath.Join(filepath.Dir(configLocation), DefaultSecretsFile)
	if ok, _ := afs.New().Exists(ctx, candidate); ok {
		return candidate
	}
	return ""
}

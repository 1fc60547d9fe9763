package config

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/convsim/genai/llm/provider"
	"github.com/viant/convsim/genai/orchestrator"
	"github.com/viant/convsim/internal/workspace"
	"gopkg.in/yaml.v3"
)

// Config is the simulator configuration document.
type Config struct {
	OutputURL    string           `yaml:"outputURL,omitempty" json:"outputURL,omitempty"`
	PromptURL    string           `yaml:"promptURL,omitempty" json:"promptURL,omitempty"`
	DefaultModel string           `yaml:"defaultModel,omitempty" json:"defaultModel,omitempty"`
	Models       provider.Configs `yaml:"models,omitempty" json:"models,omitempty"`
	Simulation   Simulation       `yaml:"simulation" json:"simulation"`
	Batch        Batch            `yaml:"batch" json:"batch"`
	Judge        Judge            `yaml:"judge" json:"judge"`
	Log          Log              `yaml:"log" json:"log"`
	Server       Server           `yaml:"server" json:"server"`
}

// Simulation holds orchestrator defaults.
type Simulation struct {
	MaxTurns         int      `yaml:"maxTurns,omitempty" json:"maxTurns,omitempty"`
	DelayMs          *int     `yaml:"delayMs,omitempty" json:"delayMs,omitempty"`
	ClosingPhrases   []string `yaml:"closingPhrases,omitempty" json:"closingPhrases,omitempty"`
	BootstrapMessage string   `yaml:"bootstrapMessage,omitempty" json:"bootstrapMessage,omitempty"`
}

// Delay returns the inter-turn delay.
func (s *Simulation) Delay() time.Duration {
	if s.DelayMs == nil {
		return orchestrator.DefaultDelay
	}
	return time.Duration(*s.DelayMs) * time.Millisecond
}

// Batch holds batch runner defaults.
type Batch struct {
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Judge configures transcript evaluation.
type Judge struct {
	Model        string `yaml:"model,omitempty" json:"model,omitempty"`
	Instructions string `yaml:"instructions,omitempty" json:"instructions,omitempty"`
}

// Log configures logging.
type Log struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`
	Pretty     bool   `yaml:"pretty,omitempty" json:"pretty,omitempty"`
	WithCaller bool   `yaml:"withCaller,omitempty" json:"withCaller,omitempty"`
}

// Server configures the HTTP server.
type Server struct {
	Addr           string   `yaml:"addr,omitempty" json:"addr,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty"`
}

// Init fills defaults and expands path templates.
func (c *Config) Init() {
	if c.OutputURL == "" {
		c.OutputURL = workspace.Path(workspace.KindConversations)
	}
	c.OutputURL = workspace.ResolvePathTemplate(c.OutputURL)
	c.PromptURL = workspace.ResolvePathTemplate(c.PromptURL)
	if c.DefaultModel == "" && len(c.Models) > 0 {
		c.DefaultModel = c.Models[0].ID
	}
	if c.Simulation.MaxTurns <= 0 {
		c.Simulation.MaxTurns = orchestrator.DefaultMaxTurns
	}
	if len(c.Simulation.ClosingPhrases) == 0 {
		c.Simulation.ClosingPhrases = []string{orchestrator.DefaultClosingPhrase}
	}
	if c.Simulation.BootstrapMessage == "" {
		c.Simulation.BootstrapMessage = orchestrator.DefaultBootstrap
	}
	if c.Judge.Model == "" {
		c.Judge.Model = c.DefaultModel
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate checks model references.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for _, model := range c.Models {
		if model == nil || model.ID == "" {
			return fmt.Errorf("model id was empty")
		}
		if seen[model.ID] {
			return fmt.Errorf("duplicate model id: %v", model.ID)
		}
		seen[model.ID] = true
		if model.Options.Provider == "" {
			return fmt.Errorf("model %v: provider was empty", model.ID)
		}
	}
	if c.DefaultModel != "" && len(c.Models) > 0 && !seen[c.DefaultModel] {
		return fmt.Errorf("default model %v is not defined", c.DefaultModel)
	}
	if c.Simulation.DelayMs != nil && *c.Simulation.DelayMs < 0 {
		return fmt.Errorf("simulation delayMs must not be negative")
	}
	return nil
}

// Load reads and initialises a config from URL.
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, normalize(URL))
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse decodes and initialises a YAML config document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Init()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrCreate loads a config from location; when the file is missing the
// embedded default is written there first. An empty location uses the workspace config.
func LoadOrCreate(ctx context.Context, location string) (*Config, error) {
	fs := afs.New()
	if location == "" {
		location = workspace.ConfigPath()
	}
	URL := normalize(location)
	if ok, _ := fs.Exists(ctx, URL); ok {
		return Load(ctx, URL)
	}
	if location == workspace.ConfigPath() {
		if err := workspace.EnsureDefault(ctx, fs, workspace.Root()); err != nil {
			return nil, err
		}
		return Load(ctx, URL)
	}
	data := workspace.DefaultConfig()
	parent, _ := url.Split(URL, file.Scheme)
	_ = fs.Create(ctx, parent, file.DefaultDirOsMode, true)
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to write default config %v: %w", URL, err)
	}
	return Parse(data)
}

func normalize(location string) string {
	if url.Scheme(location, "") != "" {
		return location
	}
	return url.Normalize(location, file.Scheme)
}

package provider

import basecfg "github.com/viant/convsim/genai/llm/provider/base"

type Options struct {
	Model     string `yaml:"model,omitempty" json:"model,omitempty"`
	Provider  string `yaml:"provider,omitempty" json:"provider,omitempty"`
	APIKeyURL string `yaml:"apiKeyURL,omitempty" json:"apiKeyURL,omitempty"`
	EnvKey    string `yaml:"envKey,omitempty" json:"envKey,omitempty"` // environment variable key to use for API key
	URL       string `yaml:"url,omitempty" json:"url,omitempty"`

	Temperature   *float64              `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens     int                   `yaml:"maxTokens,omitempty" json:"maxTokens,omitempty"`
	TimeoutSec    int                   `yaml:"timeoutSec,omitempty" json:"timeoutSec,omitempty"`
	UsageListener basecfg.UsageListener `yaml:"-" json:"-"`
}

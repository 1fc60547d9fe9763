package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/convsim/genai/orchestrator"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		yaml        string
		expectErr   bool
		assertFn    func(t *testing.T, cfg *Config)
	}{
		{
			description: "defaults applied",
			yaml:        "models:\n  - id: llama\n    options:\n      provider: llama\n      model: Llama-4\n",
			assertFn: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "llama", cfg.DefaultModel)
				assert.Equal(t, "llama", cfg.Judge.Model)
				assert.Equal(t, orchestrator.DefaultMaxTurns, cfg.Simulation.MaxTurns)
				assert.Equal(t, orchestrator.DefaultDelay, cfg.Simulation.Delay())
				assert.Equal(t, []string{orchestrator.DefaultClosingPhrase}, cfg.Simulation.ClosingPhrases)
				assert.Equal(t, orchestrator.DefaultBootstrap, cfg.Simulation.BootstrapMessage)
				assert.Equal(t, ":8080", cfg.Server.Addr)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.NotEmpty(t, cfg.OutputURL)
			},
		},
		{
			description: "explicit values",
			yaml: `outputURL: mem://localhost/out
defaultModel: gpt
models:
  - id: llama
    options: {provider: llama}
  - id: gpt
    options: {provider: openai, model: gpt-4o-mini, temperature: 0.2}
simulation:
  maxTurns: 6
  delayMs: 0
  closingPhrases: ["bye now"]
batch:
  concurrency: 3
judge:
  model: llama
`,
			assertFn: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mem://localhost/out", cfg.OutputURL)
				assert.Equal(t, "gpt", cfg.DefaultModel)
				assert.Equal(t, "llama", cfg.Judge.Model)
				assert.Equal(t, 6, cfg.Simulation.MaxTurns)
				assert.Equal(t, time.Duration(0), cfg.Simulation.Delay())
				assert.Equal(t, []string{"bye now"}, cfg.Simulation.ClosingPhrases)
				assert.Equal(t, 3, cfg.Batch.Concurrency)
				require.NotNil(t, cfg.Models.Find("gpt"))
				assert.Equal(t, 0.2, *cfg.Models.Find("gpt").Options.Temperature)
			},
		},
		{
			description: "unknown default model",
			yaml:        "defaultModel: missing\nmodels:\n  - id: llama\n    options: {provider: llama}\n",
			expectErr:   true,
		},
		{
			description: "model without provider",
			yaml:        "models:\n  - id: llama\n",
			expectErr:   true,
		},
		{
			description: "negative delay",
			yaml:        "simulation:\n  delayMs: -5\n",
			expectErr:   true,
		},
		{
			description: "malformed yaml",
			yaml:        "models: [",
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		cfg, err := Parse([]byte(testCase.yaml))
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		testCase.assertFn(t, cfg)
	}
}

func TestLoadOrCreate(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	t.Setenv("CONVSIM_WORKSPACE", root)

	cfg, err := LoadOrCreate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "llama", cfg.DefaultModel)
	assert.Equal(t, filepath.Join(root, "conversations"), cfg.OutputURL)
	assert.Len(t, cfg.Models, 4)
	ok, _ := afs.New().Exists(ctx, filepath.Join(root, "config.yaml"))
	assert.True(t, ok)

	custom := filepath.Join(t.TempDir(), "nested", "convsim.yaml")
	cfg, err = LoadOrCreate(ctx, custom)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Simulation.MaxTurns)
	ok, _ = afs.New().Exists(ctx, custom)
	assert.True(t, ok)

	again, err := Load(ctx, custom)
	require.NoError(t, err)
	assert.Equal(t, cfg.Models.Find("llama").Options.Model, again.Models.Find("llama").Options.Model)
}

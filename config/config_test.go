package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lzhao/llmbatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults only", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(filepath.Join(t.TempDir(), "config.json"))

		require.NoError(t, err)
		assert.Empty(t, cfg.CustomPrompts)
		assert.Contains(t, cfg.Prompts(), "General assistant")
		assert.Contains(t, cfg.Providers(), "DashScope")
		assert.Equal(t, config.DefaultTemperature, cfg.Temperature())
	})

	t.Run("user entries merge over defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.json")
		content := `{
			"custom_prompts": {
				"General assistant": "Override",
				"Transcripts": "Turn the input into plain prose."
			},
			"providers": {
				"Local vLLM": {
					"base_url": "http://localhost:8000/v1",
					"models": {"Local": "local-model"}
				}
			},
			"provider_keys": {"DeepSeek": "sk-abc"},
			"model_settings": {"temperature": 0.3}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)

		prompts := cfg.Prompts()
		assert.Equal(t, "Override", prompts["General assistant"])
		assert.Equal(t, "Turn the input into plain prose.", prompts["Transcripts"])

		providers := cfg.Providers()
		assert.Contains(t, providers, "Local vLLM")
		assert.Contains(t, providers, "DeepSeek") // defaults still present
		assert.Equal(t, "http://localhost:8000/v1", providers["Local vLLM"].BaseURL)

		assert.Equal(t, "sk-abc", cfg.APIKey("DeepSeek"))
		assert.Empty(t, cfg.APIKey("DashScope"))
		assert.Equal(t, 0.3, cfg.Temperature())
	})

	t.Run("explicit zero temperature is preserved", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"model_settings":{"temperature":0}}`), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0.0, cfg.Temperature())
	})

	t.Run("out-of-range temperature is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"model_settings":{"temperature":2.5}}`), 0o644))

		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("malformed provider URL is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"providers":{"Broken":{"base_url":"not a url","models":{}}}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := config.Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := &config.Config{}
	cfg.SetPrompt("Transcripts", "Plain prose only.")
	cfg.SetAPIKey("DashScope", "sk-xyz")
	cfg.SetTemperature(0.4)

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Plain prose only.", loaded.CustomPrompts["Transcripts"])
	assert.Equal(t, "sk-xyz", loaded.APIKey("DashScope"))
	assert.Equal(t, 0.4, loaded.Temperature())
}

func TestDefaultProviders(t *testing.T) {
	t.Parallel()

	providers := config.DefaultProviders()

	// Gemini is the one native-SDK provider; everything else is
	// OpenAI-compatible and must carry a base URL.
	for name, p := range providers {
		if name == "Gemini" {
			assert.Empty(t, p.BaseURL)
			continue
		}
		assert.NotEmpty(t, p.BaseURL, name)
		assert.NotEmpty(t, p.Models, name)
	}
}

// Package config loads and persists the toolkit configuration: chat
// providers, API keys, reusable system prompts and model settings.
package config

// Provider describes one chat completion service.
type Provider struct {
	// BaseURL is the OpenAI-compatible API root. Empty means the
	// provider uses the native Gemini SDK instead.
	BaseURL string `json:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Models maps display names to model identifiers.
	Models map[string]string `json:"models" mapstructure:"models"`
}

// ModelSettings holds tunables shared by every run. Temperature is a
// pointer so an explicit 0.0 is distinguishable from "never set".
type ModelSettings struct {
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// Config is the persisted configuration file. User entries extend the
// built-in defaults; Prompts and Providers return the merged view.
type Config struct {
	CustomPrompts map[string]string   `json:"custom_prompts" mapstructure:"custom_prompts"`
	UserProviders map[string]Provider `json:"providers" mapstructure:"providers" validate:"dive"`
	ProviderKeys  map[string]string   `json:"provider_keys" mapstructure:"provider_keys"`
	Settings      ModelSettings       `json:"model_settings" mapstructure:"model_settings"`
}

// DefaultTemperature is used when the config carries no setting.
const DefaultTemperature = 0.7

// DefaultPrompts are the built-in system prompts.
func DefaultPrompts() map[string]string {
	return map[string]string{
		"Summarize":         "You are an expert at summarizing text. Please provide a concise summary.",
		"Code review":       "You are a code review expert. Please analyze the code and provide suggestions.",
		"General assistant": "You are a helpful assistant.",
	}
}

// DefaultProviders are the built-in chat services.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		"DashScope": {
			BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
			Models: map[string]string{
				"Qwen Plus":  "qwen-plus",
				"Qwen Turbo": "qwen-turbo",
				"Qwen Max":   "qwen-max",
			},
		},
		"DeepSeek": {
			BaseURL: "https://api.deepseek.com",
			Models: map[string]string{
				"DeepSeek Chat": "deepseek-chat",
			},
		},
		"SiliconFlow": {
			BaseURL: "https://api.siliconflow.cn/v1",
			Models: map[string]string{
				"Hunyuan A13B Instruct": "tencent/Hunyuan-A13B-Instruct",
				"Qwen3 Next 80B":        "Qwen/Qwen3-Next-80B-A3B-Instruct",
				"DeepSeek V3":           "deepseek-ai/DeepSeek-V3",
			},
		},
		"Gemini": {
			// Native SDK provider: no OpenAI-compatible base URL.
			Models: map[string]string{
				"Gemini Flash": "gemini-3-flash-preview",
			},
		},
	}
}

// Prompts returns the built-in prompts merged with the user's custom
// ones. A custom prompt with a built-in name overrides the built-in.
func (c *Config) Prompts() map[string]string {
	merged := DefaultPrompts()
	for name, prompt := range c.CustomPrompts {
		merged[name] = prompt
	}
	return merged
}

// Providers returns the built-in providers merged with the user's. A
// user provider with a built-in name overrides the built-in.
func (c *Config) Providers() map[string]Provider {
	merged := DefaultProviders()
	for name, p := range c.UserProviders {
		merged[name] = p
	}
	return merged
}

// APIKey returns the stored key for a provider, or empty.
func (c *Config) APIKey(provider string) string {
	return c.ProviderKeys[provider]
}

// Temperature returns the configured temperature, or the default when
// the config never set one.
func (c *Config) Temperature() float64 {
	if c.Settings.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Settings.Temperature
}

// SetTemperature stores the temperature setting.
func (c *Config) SetTemperature(t float64) {
	c.Settings.Temperature = &t
}

// SetPrompt stores a custom prompt.
func (c *Config) SetPrompt(name, prompt string) {
	if c.CustomPrompts == nil {
		c.CustomPrompts = make(map[string]string)
	}
	c.CustomPrompts[name] = prompt
}

// SetAPIKey stores a provider API key.
func (c *Config) SetAPIKey(provider, key string) {
	if c.ProviderKeys == nil {
		c.ProviderKeys = make(map[string]string)
	}
	c.ProviderKeys[provider] = key
}

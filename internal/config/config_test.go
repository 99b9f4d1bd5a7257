package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)

	var config Config
	require.NoError(t, v.Unmarshal(&config))
	return &config
}

func TestDefaults(t *testing.T) {
	config := defaultConfig(t)

	assert.Equal(t, "huggingface", config.Generation.Provider)
	assert.Equal(t, "microsoft/DialoGPT-medium", config.Generation.Model)
	assert.Equal(t, 30*time.Second, config.Generation.Timeout)
	assert.Equal(t, 3, config.Generation.MaxRetries)
	assert.Equal(t, 5*time.Second, config.Generation.WarmupDelay)

	assert.Equal(t, []string{"google", "sphinx"}, config.Transcription.Methods)
	assert.Equal(t, 16000, config.Audio.SampleRate)
	assert.Equal(t, 5, config.Interview.MinQuestions)
	assert.Equal(t, 7, config.Interview.MaxQuestions)

	assert.Equal(t, "data/roles.json", config.Storage.RolesFile)
	assert.Equal(t, "data/reports", config.Storage.ReportsDir)
	assert.Equal(t, "data/interview_sessions", config.Storage.SessionsDir)

	assert.True(t, config.Generation.CircuitBreaker.Enabled)
	assert.Equal(t, "8080", config.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "gemini provider accepted",
			mutate: func(c *Config) { c.Generation.Provider = "gemini" },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Generation.Provider = "openai" },
			wantErr: "unsupported generation provider",
		},
		{
			name:    "zero generation timeout",
			mutate:  func(c *Config) { c.Generation.Timeout = 0 },
			wantErr: "timeout must be positive",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Generation.MaxRetries = -1 },
			wantErr: "maxRetries must not be negative",
		},
		{
			name:    "min questions below one",
			mutate:  func(c *Config) { c.Interview.MinQuestions = 0 },
			wantErr: "minQuestions must be at least 1",
		},
		{
			name: "max questions below min",
			mutate: func(c *Config) {
				c.Interview.MinQuestions = 6
				c.Interview.MaxQuestions = 5
			},
			wantErr: "must not be below minQuestions",
		},
		{
			name:    "invalid sample rate",
			mutate:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: "sampleRate must be positive",
		},
		{
			name:    "no transcription methods",
			mutate:  func(c *Config) { c.Transcription.Methods = nil },
			wantErr: "at least one transcription method",
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server port is required",
		},
		{
			name:    "default format not supported",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig(t)
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyFallbacksAPIKeys(t *testing.T) {
	t.Setenv("INTERVUE_SERVER_APIKEYS", "key-one, key-two ,key-three")

	config := defaultConfig(t)
	config.applyFallbacks()

	assert.Equal(t, []string{"key-one", "key-two", "key-three"}, config.Server.APIKeys)
}

func TestApplyFallbacksGenerationToken(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "hf_test_token")

	config := defaultConfig(t)
	config.applyFallbacks()

	assert.Equal(t, "hf_test_token", config.Generation.APIToken)
}

func TestApplyFallbacksServiceInstance(t *testing.T) {
	config := defaultConfig(t)
	config.Observability.ServiceInstance = ""
	config.applyFallbacks()

	assert.True(t, strings.HasPrefix(config.Observability.ServiceInstance, config.Observability.ServiceName+"-"))
}

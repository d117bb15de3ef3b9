package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/essayfb/internal/model"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	require.NoError(t, bindEnv())

	cfg, err := loadConfig()
	require.NoError(t, err)

	want := model.DefaultConfig()
	assert.Equal(t, want.Generation, cfg.Generation)
	assert.Equal(t, want.Cache, cfg.Cache)
	assert.Equal(t, want.Server, cfg.Server)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("ESSAYFB_LLM_PROVIDER", "anthropic")
	t.Setenv("ESSAYFB_LLM_API_KEY", "sk-ant-from-env")
	t.Setenv("ESSAYFB_CACHE_TTL", "2h")
	t.Setenv("ESSAYFB_CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("ESSAYFB_GENERATION_PRIMARY_TEMPERATURE", "0.2")
	t.Setenv("ESSAYFB_TELEMETRY_ENABLED", "true")
	require.NoError(t, bindEnv())

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant-from-env", cfg.LLM.APIKey)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 0.2, cfg.Generation.PrimaryTemperature)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: ollama\n  model: llama3\nconcurrency:\n  workers: 9\n"), 0644))

	viper.SetConfigFile(path)
	require.NoError(t, bindEnv())
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 9, cfg.Concurrency.Workers)
	assert.Equal(t, 8, cfg.Concurrency.NotationWorkers)
}

func TestApplyProviderEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	openai := model.LLMConfig{Provider: "openai"}
	applyProviderEnv(&openai)
	assert.Equal(t, "sk-openai", openai.APIKey)

	explicit := model.LLMConfig{Provider: "openai", APIKey: "sk-explicit"}
	applyProviderEnv(&explicit)
	assert.Equal(t, "sk-explicit", explicit.APIKey)

	gemini := model.LLMConfig{Provider: "gemini"}
	applyProviderEnv(&gemini)
	assert.Equal(t, "g-key", gemini.APIKey)

	ollama := model.LLMConfig{Provider: "ollama"}
	applyProviderEnv(&ollama)
	assert.Equal(t, "http://ollama:11434", ollama.BaseURL)
}

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".essayfb", "config.yaml")
	require.NoError(t, initConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# essayfb configuration file"))

	var parsed model.Config
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, *model.DefaultConfig(), parsed)

	assert.Error(t, initConfigFile(path), "existing files are never overwritten")
}

func TestMaskSecrets(t *testing.T) {
	cfg := model.Config{LLM: model.LLMConfig{APIKey: "sk-1234567890abcd"}}
	assert.Equal(t, "sk-1...abcd", maskSecrets(cfg).LLM.APIKey)
	assert.Equal(t, "sk-1234567890abcd", cfg.LLM.APIKey)

	cfg.LLM.APIKey = "short"
	assert.Equal(t, "***", maskSecrets(cfg).LLM.APIKey)
}

func TestWriteConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, *model.DefaultConfig()))
	assert.Contains(t, buf.String(), "primary_temperature: 0.5")
	assert.Contains(t, buf.String(), "ttl: 24h0m0s")
}

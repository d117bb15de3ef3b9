package model

import "time"

// Config is the complete essayfb configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Generation   GenerationConfig   `yaml:"generation" mapstructure:"generation"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Telemetry    TelemetryConfig    `yaml:"telemetry" mapstructure:"telemetry"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects and configures the text-generation provider
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, gemini
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per call
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// GenerationConfig holds per-round sampling parameters
type GenerationConfig struct {
	PrimaryTemperature    float64 `yaml:"primary_temperature" mapstructure:"primary_temperature"`
	SupplementTemperature float64 `yaml:"supplement_temperature" mapstructure:"supplement_temperature"`
	FormulaTemperature    float64 `yaml:"formula_temperature" mapstructure:"formula_temperature"`
	MaxOutputTokens       int     `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
}

// CacheConfig configures completion caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
}

// RateLimitingConfig throttles generation calls per provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers         int `yaml:"workers" mapstructure:"workers"`                   // essays processed in parallel by batch
	NotationWorkers int `yaml:"notation_workers" mapstructure:"notation_workers"` // sentences validated in parallel
}

// HTTPConfig configures fetching essays from URLs
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// TelemetryConfig configures OpenTelemetry tracing
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter    string  `yaml:"exporter" mapstructure:"exporter"` // stdout, otlp
	Endpoint    string  `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   90,
			MaxTokens: 4096,
		},
		Generation: GenerationConfig{
			PrimaryTemperature:    0.5,
			SupplementTemperature: 0.6,
			FormulaTemperature:    0.3,
			MaxOutputTokens:       4096,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "layered",
			Dir:     ".essayfb-cache",
			TTL:     24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         4,
			NotationWorkers: 8,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "essayfb/0.1 (+https://github.com/ppiankov/essayfb)",
			MaxBodyBytes: 2_000_000,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RequestTimeout: 3 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/essayfb/internal/logging"
	"github.com/ppiankov/essayfb/internal/model"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "essayfb",
	Short: "essayfb - sentence-grounded essay feedback",
	Long: `essayfb splits an essay into sentences and produces typed, sentence-anchored
feedback (Claim, Reasoning, Evidence, Rebuttal, Organization, Word Usage,
Orthography, Others) using a text-generation service.

When the service is unavailable or returns too little, feedback is
synthesized locally from deterministic templates, so every essay with at
least one sentence receives feedback.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, typically cancelled on SIGINT
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for essayfb.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "essayfb %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.essayfb/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and ESSAYFB_* environment variables
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".essayfb"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := bindEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps ESSAYFB_* variables onto config keys, e.g. ESSAYFB_LLM_API_KEY
// onto llm.api_key
func bindEnv() error {
	viper.SetEnvPrefix("ESSAYFB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return registerDefaults(model.DefaultConfig())
}

// registerDefaults teaches viper every key so AutomaticEnv can override it
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaults("", tree)

	// omitempty keys never reach the defaults tree
	for _, key := range optionalKeys {
		if err := viper.BindEnv(key); err != nil {
			return err
		}
	}
	return nil
}

var optionalKeys = []string{
	"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy", "llm.no_proxy",
	"http.http_proxy", "http.https_proxy", "http.no_proxy",
	"cache.redis_addr", "telemetry.endpoint",
}

func setDefaults(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig resolves the effective configuration: flags, env, file, defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyProviderEnv(&cfg.LLM)
	return cfg, nil
}

// applyProviderEnv fills credentials from the providers' conventional
// environment variables when the config leaves them empty
func applyProviderEnv(c *model.LLMConfig) {
	switch strings.ToLower(c.Provider) {
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "gemini", "google":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && c.BaseURL == "" {
			c.BaseURL = baseURL
		}
	}
}

// newLogger builds the zap logger from cfg
func newLogger(cfg *model.Config) *zap.Logger {
	level := cfg.Logging.Level
	if cfg.Output.Verbose && level == "info" {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info level\n", err)
		return logging.Must("info", cfg.Logging.Format)
	}
	return logger
}

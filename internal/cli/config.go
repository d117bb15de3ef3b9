package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/essayfb/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage essayfb configuration",
	Long: `Manage essayfb configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ESSAYFB_*, .env in the working directory)
3. Config file (~/.essayfb/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, environment and flags. API keys are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		return writeConfig(cmd.OutOrStdout(), maskSecrets(*cfg))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.essayfb/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".essayfb", "config.yaml")
		if err := initConfigFile(configPath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  essayfb config show\n")
		fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
		fmt.Fprintf(out, "  $EDITOR %s\n\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func writeConfig(w io.Writer, cfg model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func maskSecrets(cfg model.Config) model.Config {
	if len(cfg.LLM.APIKey) > 8 {
		cfg.LLM.APIKey = cfg.LLM.APIKey[:4] + "..." + cfg.LLM.APIKey[len(cfg.LLM.APIKey)-4:]
	} else if cfg.LLM.APIKey != "" {
		cfg.LLM.APIKey = "***"
	}
	return cfg
}

// initConfigFile writes the commented default configuration to path. It
// refuses to overwrite an existing file.
func initConfigFile(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'essayfb config show' to view it, or delete it first to recreate", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# essayfb configuration file\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (ESSAYFB_*, e.g. ESSAYFB_LLM_PROVIDER=anthropic)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")
	if err != nil {
		return err
	}

	if err := writeConfig(f, *model.DefaultConfig()); err != nil {
		return err
	}

	printf("\n# API keys (recommended to use environment variables instead):\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export GEMINI_API_KEY=...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")
	return err
}

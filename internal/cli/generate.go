package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/pipeline"
	"github.com/ppiankov/essayfb/internal/telemetry"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	llmProvider string
	llmModel    string
	httpProxy   string
	httpsProxy  string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <file|url|->",
	Short: "Generate feedback for one essay",
	Long: `Generate loads an essay, splits it into sentences and produces typed,
sentence-anchored feedback:
- Primary request to the text-generation service
- Supplement request when the first round falls short of the minimum
- Dedicated formula round for sentences with math notation
- Local notation checks and template fallback, so the minimum is always met

Example:
  essayfb generate essay.txt
  essayfb generate essay.md --json report.json --md report.md
  essayfb generate https://example.com/essay.html --llm-provider anthropic
  cat essay.txt | essayfb generate -`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	generateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	addProviderFlags(generateCmd)
}

// addProviderFlags registers flags shared by commands that call the service
func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable completion cache")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, gemini, none)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// commandConfig loads the configuration and applies provider flags
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		if !flags.Changed("llm-model") {
			cfg.LLM.Model = ""
		}
		cfg.LLM.APIKey = ""
		applyProviderEnv(&cfg.LLM)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
		cfg.LLM.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
		cfg.LLM.HTTPSProxy = httpsProxy
	}
	return cfg, nil
}

// setup builds logger, tracing and pipeline for a command run. The returned
// cleanup flushes spans and logs.
func setup(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, *zap.Logger, func(), error) {
	logger := newLogger(cfg)

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, Version, logger)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}

	cleanup := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(flushCtx)
		_ = logger.Sync()
	}
	return p, logger, cleanup, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	src := args[0]
	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Essay:    %s\n", src)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, _, cleanup, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented %d sentences\n", len(report.Sentences))
		fmt.Fprintf(os.Stderr, "✓ %d generation rounds\n", len(report.Rounds))
		fmt.Fprintf(os.Stderr, "✓ %d feedback items\n", len(report.Items))
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReportTo(cmd.OutOrStdout(), report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/pipeline"
	"github.com/ppiankov/essayfb/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	essayTimeout time.Duration
	writeMD      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate feedback for many essays in parallel",
	Long: `Batch processes many essays concurrently:
- Read essay sources from the input file (one path or URL per line, # comments allowed)
- Process essays in parallel with a configurable worker count
- Generation calls share one rate limiter and completion cache
- Write one JSON (and optionally Markdown) report per essay

Example:
  essayfb batch essays.txt
  essayfb batch essays.txt --concurrency 8 --output-dir ./reports --md
  essayfb batch essays.txt --timeout 30m --essay-timeout 3m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./essayfb-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&essayTimeout, "essay-timeout", 5*time.Minute, "timeout for each essay")
	batchCmd.Flags().BoolVar(&writeMD, "md", false, "also write Markdown reports")
	addProviderFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(commandContext(cmd), batchTimeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  essayfb Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, logger, cleanup, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	process := func(ctx context.Context, src string) (*pipeline.Report, error) {
		ctx, cancel := context.WithTimeout(ctx, essayTimeout)
		defer cancel()
		return p.Run(ctx, src)
	}
	processor := worker.NewBatchProcessor(process, cfg.Concurrency.Workers, logger)

	fmt.Fprintf(os.Stderr, "⚙️  Processing essays with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	success, failures := writeBatchReports(results, outputDir, writeMD, logger)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d essays\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", success)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 && success == 0 {
		return fmt.Errorf("all %d essays failed", failures)
	}
	return nil
}

// writeBatchReports renders every successful result into dir. File names are
// prefixed with the input position so equal titles never collide.
func writeBatchReports(results []*worker.BatchResult[*pipeline.Report], dir string, md bool, logger *zap.Logger) (success, failures int) {
	renderer := pipeline.NewRenderer()
	for i, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		report := result.Value
		stem := fmt.Sprintf("%03d-%s", i+1, report.Slug())
		if err := renderer.RenderJSON(report, filepath.Join(dir, stem+".json")); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
			continue
		}
		if md {
			if err := renderer.RenderMarkdown(report, filepath.Join(dir, stem+".md")); err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Source, err)
				continue
			}
		}

		success++
		note := ""
		if report.Failure != "" {
			note = " (local fallback: " + report.Failure + ")"
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %d items%s\n", result.Source, len(report.Items), note)
		logger.Debug("report written", zap.String("source", result.Source), zap.String("job_id", result.JobID), zap.String("file", stem))
	}
	return success, failures
}

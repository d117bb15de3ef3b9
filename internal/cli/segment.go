package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/segment"
	"github.com/ppiankov/essayfb/internal/source"
)

var segmentPlain bool

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment <file|url|->",
	Short: "Split an essay into sentences",
	Long: `Segment prints the essay's sentences as JSON: 1-based ids, paragraph
index and content. Inline math ($...$, \(...\), \[...\]) is never split.

Example:
  essayfb segment essay.txt
  essayfb segment essay.txt --plain`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().BoolVar(&segmentPlain, "plain", false, "print the re-joined paragraphs instead of JSON")
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	loader := source.NewLoader(source.NewFetcher(cfg.HTTP, cfg.RateLimiting, logger), cfg.HTTP.MaxBodyBytes)
	doc, err := loader.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	sentences := segment.Segment(doc.Text)
	if sentences == nil {
		sentences = []model.Sentence{}
	}

	out := cmd.OutOrStdout()
	if segmentPlain {
		_, err := fmt.Fprintln(out, model.EssayToPlainText(sentences))
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sentences)
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

// Renderer writes reports as JSON and Markdown
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes report as indented JSON to path
func (r *Renderer) RenderJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes report as Markdown to path
func (r *Renderer) RenderMarkdown(report *Report, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, report)
	return writeFile(path, []byte(b.String()))
}

// WriteMarkdown renders the Markdown report into w
func (r *Renderer) WriteMarkdown(w io.Writer, report *Report) {
	title := report.Title
	if title == "" {
		title = report.Source
	}
	fmt.Fprintf(w, "# Essay feedback: %s\n\n", title)
	fmt.Fprintf(w, "- Source: %s\n", report.Source)
	if report.FinalURL != "" && report.FinalURL != report.Source {
		fmt.Fprintf(w, "- Final URL: %s\n", report.FinalURL)
	}
	if report.Provider != "" {
		fmt.Fprintf(w, "- Provider: %s\n", report.Provider)
	}
	if report.RunID != "" {
		fmt.Fprintf(w, "- Run: %s\n", report.RunID)
	}
	fmt.Fprintf(w, "- Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "## Summary\n\n%s\n\n", report.Summary)
	if report.Failure != "" {
		fmt.Fprintf(w, "> %s Feedback below was synthesized locally.\n\n", report.Failure)
	}

	if len(report.Sentences) > 0 {
		fmt.Fprintf(w, "## Essay\n\n%s\n\n", model.EssayToPlainText(report.Sentences))
	}

	fmt.Fprintf(w, "## Feedback (%d items)\n\n", len(report.Items))
	for _, s := range report.Sentences {
		items := report.ItemsFor(s.ID)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(w, "### Sentence %d\n\n> %s\n\n", s.ID, s.Content)
		for _, item := range items {
			fmt.Fprintf(w, "%d. **%s** (%s): %s\n", item.ID, item.Type, item.File, item.Content)
			for _, plan := range item.Plan {
				if plan.Why != "" {
					fmt.Fprintf(w, "   - Why: %s\n", plan.Why)
				}
				for _, h := range plan.How {
					fmt.Fprintf(w, "   - %s: %s\n", h.Title, h.Strategy)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(report.Rounds) > 0 {
		fmt.Fprintf(w, "## Generation rounds\n\n| Round | State | OK | Parsed | Total | Failure |\n|---|---|---|---|---|---|\n")
		for i, round := range report.Rounds {
			fmt.Fprintf(w, "| %d | %s | %t | %d | %d | %s |\n",
				i+1, round.State, round.OK, round.Parsed, round.Total, round.Failure)
		}
		fmt.Fprintln(w)
	}
}

// RenderSummary prints a short human summary
func (r *Renderer) RenderSummary(w io.Writer, report *Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Essay:     %s\n", report.Source)
	fmt.Fprintf(w, "Sentences: %d\n", len(report.Sentences))
	fmt.Fprintf(w, "Items:     %d (target %d, minimum %d)\n", len(report.Items), report.Target, report.Minimum)
	local := 0
	for _, item := range report.Items {
		if item.File == "local" {
			local++
		}
	}
	if local > 0 {
		fmt.Fprintf(w, "Local:     %d synthesized without the service\n", local)
	}
	if report.Failure != "" {
		fmt.Fprintf(w, "Warning:   %s\n", report.Failure)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Summary)
	fmt.Fprintln(w)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename turns an arbitrary source name into a short file stem
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = unsafeFilename.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "essay"
	}
	return s
}

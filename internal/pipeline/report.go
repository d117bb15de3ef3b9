package pipeline

import (
	"time"

	"github.com/ppiankov/essayfb/internal/feedback"
	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/source"
)

// Report is the complete output for one essay
type Report struct {
	RunID       string               `json:"run_id,omitempty"`
	Source      string               `json:"source"`
	FinalURL    string               `json:"final_url,omitempty"`
	Title       string               `json:"title,omitempty"`
	Provider    string               `json:"provider,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
	Sentences   []model.Sentence     `json:"sentences"`
	Items       []model.FeedbackItem `json:"items"`
	Summary     string               `json:"summary"`
	Target      int                  `json:"target"`
	Minimum     int                  `json:"minimum"`
	Rounds      []feedback.Round     `json:"rounds,omitempty"`
	States      []feedback.State     `json:"states,omitempty"`
	Failure     string               `json:"failure,omitempty"` // user message when every round failed
}

func newReport(doc *source.Document, sentences []model.Sentence, result *feedback.Result, provider string) *Report {
	if sentences == nil {
		sentences = []model.Sentence{}
	}
	r := &Report{
		RunID:       result.RunID,
		Source:      doc.Source,
		FinalURL:    doc.FinalURL,
		Title:       doc.Title,
		Provider:    provider,
		GeneratedAt: time.Now().UTC(),
		Sentences:   sentences,
		Items:       result.Items,
		Summary:     result.Summary,
		Target:      result.Target,
		Minimum:     result.Minimum,
		Rounds:      result.Rounds,
		States:      result.States,
	}
	if result.Err() != nil && len(result.Rounds) > 0 {
		r.Failure = result.Rounds[len(result.Rounds)-1].Message
	}
	return r
}

// ItemsFor returns the items whose plan addresses sentence id, in id order
func (r *Report) ItemsFor(sentenceID int) []model.FeedbackItem {
	var out []model.FeedbackItem
	for _, item := range r.Items {
		for _, id := range item.SentenceIDs() {
			if id == sentenceID {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Slug returns a filesystem-friendly name for the report's source
func (r *Report) Slug() string {
	name := r.Title
	if name == "" {
		name = r.Source
	}
	return sanitizeFilename(name)
}

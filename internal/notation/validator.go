// Package notation checks embedded math expressions for syntactic validity.
package notation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/segment"
)

const (
	syntaxContent = "This formula appears to have LaTeX syntax issues. Consider correcting command names, braces, or delimiters."
	syntaxWhy     = "Invalid formula syntax can break rendering and reduce readability. Parser hint: "
)

// Validator turns unparseable math spans into advisory feedback entries
type Validator struct {
	renderer Renderer
	workers  int
}

// NewValidator creates a validator. A nil renderer uses TexChecker.
func NewValidator(renderer Renderer, workers int) *Validator {
	if renderer == nil {
		renderer = NewTexChecker(nil)
	}
	if workers <= 0 {
		workers = 4
	}
	return &Validator{renderer: renderer, workers: workers}
}

// CheckSentence returns one Others entry per math span in the sentence that
// fails to render
func (v *Validator) CheckSentence(s model.Sentence) []model.Entry {
	var out []model.Entry
	for _, span := range segment.ExtractMath(s.Content) {
		expr := segment.UnwrapMath(span)
		if expr == "" {
			continue
		}
		err := v.renderer.Render(expr, false)
		if err == nil {
			continue
		}
		out = append(out, model.Entry{
			Content:      syntaxContent,
			Type:         model.TypeOthers,
			SentenceID:   s.ID,
			SentenceText: s.Content,
			Why:          syntaxWhy + err.Error(),
			How: []model.HowItem{{
				Title:    "Validate LaTeX syntax",
				Strategy: "Check unmatched braces, command spelling, and proper use of subscripts/superscripts.",
			}},
			Source: model.SourceLocal,
		})
	}
	return out
}

// Validate checks every sentence in parallel and returns entries in sentence order.
// It only fails when ctx is cancelled.
func (v *Validator) Validate(ctx context.Context, sentences []model.Sentence) ([]model.Entry, error) {
	perSentence := make([][]model.Entry, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, s := range sentences {
		if !segment.ContainsMath(s.Content) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perSentence[i] = v.CheckSentence(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Entry
	for _, entries := range perSentence {
		out = append(out, entries...)
	}
	return out, nil
}

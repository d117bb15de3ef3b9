package feedback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

// fixed heuristic scores carried by every item
const (
	scoreActionability = 0.8
	scoreJustification = 0.6
	scoreSentiment     = 0.5
	scoreSpecificity   = 0.6
	scoreEngagement    = 2.5

	fileService = "LLM"
	fileLocal   = "local"
)

// ToFeedbackItem converts an accumulated entry into an output item with the
// given 1-based id
func ToFeedbackItem(e model.Entry, id int) model.FeedbackItem {
	file := fileService
	if e.Source == model.SourceLocal {
		file = fileLocal
	}
	return model.FeedbackItem{
		ID:            id,
		Content:       e.Content,
		Type:          e.Type,
		Actionability: scoreActionability,
		Justification: scoreJustification,
		Sentiment:     scoreSentiment,
		Specificity:   scoreSpecificity,
		Engagement:    scoreEngagement,
		Source:        e.Source,
		File:          file,
		Plan: []model.Plan{{
			Sentence: e.SentenceText,
			What:     []int{e.SentenceID},
			Why:      e.Why,
			How:      e.How,
		}},
		Addressed: false,
	}
}

// summaryTypes caps how many types the summary names
const summaryTypes = 5

// Summarize names the most frequent types with their counts, ties in
// first-appearance order, and the number of distinct sentences addressed
func Summarize(items []model.FeedbackItem) string {
	if len(items) == 0 {
		return "Feedback highlights: none. 0 sentences addressed."
	}

	counts := make(map[model.FeedbackType]int)
	var order []model.FeedbackType
	addressed := make(map[int]struct{})
	for _, item := range items {
		if _, ok := counts[item.Type]; !ok {
			order = append(order, item.Type)
		}
		counts[item.Type]++
		for _, id := range item.SentenceIDs() {
			addressed[id] = struct{}{}
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > summaryTypes {
		order = order[:summaryTypes]
	}

	parts := make([]string, len(order))
	for i, t := range order {
		parts[i] = fmt.Sprintf("%s: %d comments", t, counts[t])
	}
	return fmt.Sprintf("Feedback highlights: %s. %d sentences addressed.",
		strings.Join(parts, "; "), len(addressed))
}

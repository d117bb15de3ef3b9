package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEssayToPlainText(t *testing.T) {
	sentences := []Sentence{
		{ID: 1, Paragraph: 1, Content: "First."},
		{ID: 2, Paragraph: 1, Content: " Second. "},
		{ID: 3, Paragraph: 2, Content: "Third."},
		{ID: 4, Paragraph: 0, Content: "Unassigned."},
	}
	assert.Equal(t, "First. Second.\n\nThird.\n\nUnassigned.", EssayToPlainText(sentences))
	assert.Empty(t, EssayToPlainText(nil))
}

func TestFeedbackItem_SentenceIDs(t *testing.T) {
	item := FeedbackItem{Plan: []Plan{{What: []int{2}}, {What: []int{5, 6}}}}
	assert.Equal(t, []int{2, 5, 6}, item.SentenceIDs())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.5, cfg.Generation.PrimaryTemperature)
	assert.Equal(t, 0.6, cfg.Generation.SupplementTemperature)
	assert.Equal(t, 0.3, cfg.Generation.FormulaTemperature)
	assert.Equal(t, 4096, cfg.Generation.MaxOutputTokens)
	assert.Len(t, FeedbackTypes, 8)
}

package model

import "strings"

// Sentence is one segmented sentence of an essay
type Sentence struct {
	ID        int    `json:"id"`        // 1-based, dense, reading order
	Paragraph int    `json:"paragraph"` // 1-based paragraph index
	Content   string `json:"content"`   // Sentence text (never blank)
}

// EssayToPlainText renders sentences back into paragraphs separated by a blank line
func EssayToPlainText(sentences []Sentence) string {
	if len(sentences) == 0 {
		return ""
	}

	var paragraphs [][]string
	current := -1
	last := 0
	for _, s := range sentences {
		p := s.Paragraph
		if p <= 0 {
			p = 1
		}
		if current < 0 || p != last {
			paragraphs = append(paragraphs, nil)
			current = len(paragraphs) - 1
			last = p
		}
		paragraphs[current] = append(paragraphs[current], strings.TrimSpace(s.Content))
	}

	parts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		parts[i] = strings.Join(p, " ")
	}
	return strings.Join(parts, "\n\n")
}

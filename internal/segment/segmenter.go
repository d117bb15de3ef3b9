// Package segment splits essay text into ordered sentence records.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/essayfb/internal/model"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n+`)

// Segment splits raw essay text into sentences. Ids are 1-based and dense
// across the whole essay; paragraphs are separated by blank lines.
func Segment(text string) []model.Sentence {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []model.Sentence
	id := 1
	paragraph := 0

	for _, raw := range paragraphBreak.Split(text, -1) {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		paragraph++

		m := &masker{}
		for _, fragment := range splitSentences(m.mask(p)) {
			s := strings.TrimSpace(m.restore(strings.TrimSpace(fragment)))
			if s == "" {
				continue
			}
			out = append(out, model.Sentence{ID: id, Paragraph: paragraph, Content: s})
			id++
		}
	}

	return out
}

// splitSentences breaks text at whitespace that directly follows '.', '!' or '?'.
// The whitespace run itself is dropped.
func splitSentences(text string) []string {
	var parts []string
	start := 0
	prevTerminal := false

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if prevTerminal && unicode.IsSpace(r) {
			parts = append(parts, text[start:i])
			j := i
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			start = j
			i = j
			prevTerminal = false
			continue
		}
		prevTerminal = r == '.' || r == '!' || r == '?'
		i += size
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}

	return parts
}

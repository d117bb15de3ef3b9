package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// mathPattern matches the four supported math delimiter forms:
// \[...\], \(...\), $$...$$ and $...$ (inline, single line).
var mathPattern = regexp.MustCompile(`\\\[[\s\S]*?\\\]|\\\([\s\S]*?\\\)|\$\$[\s\S]*?\$\$|\$(?:\\.|[^$\n])+\$`)

var placeholderPattern = regexp.MustCompile(`__MATH_BLOCK_(\d+)__`)

// ExtractMath returns every delimited math span in text, delimiters included
func ExtractMath(text string) []string {
	return mathPattern.FindAllString(text, -1)
}

// ContainsMath reports whether text has at least one delimited math span
func ContainsMath(text string) bool {
	return mathPattern.MatchString(text)
}

// UnwrapMath strips the outer delimiters from a math span and trims it
func UnwrapMath(expr string) string {
	for _, d := range [][2]string{{`\[`, `\]`}, {`\(`, `\)`}, {"$$", "$$"}} {
		if len(expr) >= 4 && strings.HasPrefix(expr, d[0]) && strings.HasSuffix(expr, d[1]) {
			return strings.TrimSpace(expr[2 : len(expr)-2])
		}
	}
	if len(expr) >= 2 && strings.HasPrefix(expr, "$") && strings.HasSuffix(expr, "$") {
		return strings.TrimSpace(expr[1 : len(expr)-1])
	}
	return strings.TrimSpace(expr)
}

// masker swaps math spans for opaque tokens so their punctuation
// never reads as a sentence boundary
type masker struct {
	spans []string
}

func (m *masker) mask(text string) string {
	return mathPattern.ReplaceAllStringFunc(text, func(span string) string {
		token := "__MATH_BLOCK_" + strconv.Itoa(len(m.spans)) + "__"
		m.spans = append(m.spans, span)
		return token
	})
}

func (m *masker) restore(text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		sub := placeholderPattern.FindStringSubmatch(token)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i < 0 || i >= len(m.spans) {
			return ""
		}
		return m.spans[i]
	})
}

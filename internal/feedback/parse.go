package feedback

import (
	"encoding/json"
	"regexp"
	"strings"
)

// RawEntry is one untrusted record decoded from a generation-service
// response. Field types are whatever the service sent.
type RawEntry struct {
	Content      any `json:"content"`
	Type         any `json:"type"`
	SentenceID   any `json:"sentenceId"`
	SentenceText any `json:"sentenceText"`
	Why          any `json:"why"`
	How          any `json:"how"`
}

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ParseResponse extracts candidate entries from response text. It tries a
// direct parse (inside a markdown fence when present) and, independently, the
// span from the first '[' to the last ']'; candidates from both are returned.
// Malformed text yields no candidates.
func ParseResponse(text string) []RawEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return append(parseDirect(text), parseBracketSpan(text)...)
}

func parseDirect(text string) []RawEntry {
	body := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(body); m != nil {
		body = strings.TrimSpace(m[1])
	}
	return decodeArray(body)
}

func parseBracketSpan(text string) []RawEntry {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return decodeArray(text[start : end+1])
}

func decodeArray(body string) []RawEntry {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil
	}

	out := make([]RawEntry, 0, len(items))
	for _, item := range items {
		var raw RawEntry
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		out = append(out, raw)
	}
	return out
}

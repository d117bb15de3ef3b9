package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/essayfb/internal/model"
)

func TestCanonicalType(t *testing.T) {
	tests := map[string]model.FeedbackType{
		"Claim":          model.TypeClaim,
		"  REASONING ":   model.TypeReasoning,
		"evidence":       model.TypeEvidence,
		"Rebuttal":       model.TypeRebuttal,
		"organization":   model.TypeOrganization,
		"word   USAGE":   model.TypeWordUsage,
		"word-usage":     model.TypeWordUsage,
		"Orthography":    model.TypeOrthography,
		"others":         model.TypeOthers,
		"Style":          model.TypeOthers,
		"":               model.TypeOthers,
		"word\tusage\n ": model.TypeWordUsage,
	}
	for label, want := range tests {
		assert.Equal(t, want, CanonicalType(label), "label %q", label)
	}
}

func TestNormalize(t *testing.T) {
	sentences := []model.Sentence{
		{ID: 1, Content: "First sentence."},
		{ID: 2, Content: "Second sentence."},
	}
	raw := []RawEntry{
		{Content: " Keep me. ", Type: "claim", SentenceID: float64(2), SentenceText: "model guessed wrong", Why: " because ",
			How: []any{map[string]any{"title": 7, "strategy": "do it"}, "junk", map[string]any{"title": "T", "strategy": "S"}}},
		{Content: "id as string", Type: 42, SentenceID: " 1 ", Why: "w"},
		{Content: "bad id", Type: "Claim", SentenceID: "one", Why: "w"},
		{Content: "neg", Type: "Claim", SentenceID: float64(-1), Why: "w"},
		{Content: "huge", Type: "Claim", SentenceID: float64(1e12), Why: "w"},
		{Content: "", Type: "Claim", SentenceID: float64(1), Why: "w"},
		{Content: 5, Type: "Claim", SentenceID: float64(1), Why: "w"},
		{Content: "missing id", Type: "Claim", Why: "w"},
	}

	out := Normalize(raw, sentences, model.SourceService)
	require.Len(t, out, 2)

	assert.Equal(t, "Keep me.", out[0].Content)
	assert.Equal(t, "because", out[0].Why)
	assert.Equal(t, "Second sentence.", out[0].SentenceText)
	assert.Equal(t, model.TypeClaim, out[0].Type)
	assert.Equal(t, []model.HowItem{{Title: "Improve", Strategy: "do it"}, {Title: "T", Strategy: "S"}}, out[0].How)
	assert.Equal(t, model.SourceService, out[0].Source)

	assert.Equal(t, 1, out[1].SentenceID)
	assert.Equal(t, model.TypeOthers, out[1].Type)
	assert.Nil(t, out[1].How)
}

func TestDedupe(t *testing.T) {
	entries := []model.Entry{
		{SentenceID: 1, Type: model.TypeClaim, Content: "Same", Why: "first"},
		{SentenceID: 1, Type: model.TypeClaim, Content: " same ", Why: "second"},
		{SentenceID: 2, Type: model.TypeClaim, Content: "Same"},
		{SentenceID: 1, Type: model.TypeEvidence, Content: "Same"},
	}

	out := Dedupe(entries)
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Why)
	assert.Equal(t, out, Dedupe(out))
}

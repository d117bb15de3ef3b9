package feedback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/essayfb/internal/model"
)

func TestIsGeneric(t *testing.T) {
	assert.True(t, IsGeneric(""))
	assert.True(t, IsGeneric("   "))
	assert.True(t, IsGeneric("Please CLARIFY THE MAIN CLAIM here."))
	assert.True(t, IsGeneric("You should strengthen the transition between ideas."))
	assert.False(t, IsGeneric("Name the year the policy took effect."))
	assert.False(t, IsGeneric("Make the main claim clearer."), "paraphrases are not detected")
}

func TestEnforcer_RewritesGeneric(t *testing.T) {
	sentences := []model.Sentence{{ID: 1, Content: "Solar subsidies doubled household installations."}}
	e := NewEnforcer(sentences)

	out := e.Apply([]model.Entry{{
		SentenceID: 1,
		Type:       model.TypeEvidence,
		Content:    "Add more concrete support.",
		Why:        "old why",
	}})
	require.Len(t, out, 1)

	assert.Contains(t, out[0].Content, `"Solar subsidies doubled household installations."`)
	assert.Contains(t, out[0].Content, "(focus: solar, subsidies, doubled)")
	assert.NotEqual(t, "old why", out[0].Why)
	assert.NotEmpty(t, out[0].How)
	assert.False(t, IsGeneric(out[0].Content))
}

func TestEnforcer_RewritesRepeatsWithinType(t *testing.T) {
	sentences := []model.Sentence{
		{ID: 1, Content: "Wind farms are expanding."},
		{ID: 2, Content: "Coal plants are closing."},
	}
	e := NewEnforcer(sentences)

	out := e.Apply([]model.Entry{
		{SentenceID: 1, Type: model.TypeClaim, Content: "State your position directly."},
		{SentenceID: 2, Type: model.TypeClaim, Content: "State your position directly."},
		{SentenceID: 2, Type: model.TypeReasoning, Content: "State your position directly."},
	})
	require.Len(t, out, 3)

	assert.Equal(t, "State your position directly.", out[0].Content)
	assert.Contains(t, out[1].Content, "Coal plants are closing.")
	assert.Equal(t, "State your position directly.", out[2].Content, "other types keep their wording")
	assert.Equal(t, "Coal plants are closing.", out[1].SentenceText)
}

func TestEnforcer_DropsUnknownSentences(t *testing.T) {
	e := NewEnforcer([]model.Sentence{{ID: 1, Content: "Only one."}})
	out := e.Apply([]model.Entry{{SentenceID: 9, Type: model.TypeClaim, Content: "x"}})
	assert.Empty(t, out)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "this sentence", Snippet("  "))
	assert.Equal(t, "a b c", Snippet("a \n b\t c"))

	long := strings.Repeat("word ", 40)
	s := Snippet(long)
	assert.Len(t, []rune(s), 96)
	assert.True(t, strings.HasSuffix(s, "..."))

	math := "We define " + strings.Repeat("x ", 60) + "as $\\frac{a}{b}$ here."
	assert.Equal(t, strings.Join(strings.Fields(math), " "), Snippet(math), "notation is never cut")
}

func TestKeyPhrases(t *testing.T) {
	assert.Equal(t, []string{"renewable", "energy", "adoption"},
		KeyPhrases("Therefore, renewable energy adoption has been slow because energy is cheap."))
	assert.Empty(t, KeyPhrases("It is so."))
}

func TestSpecificFeedback_EveryType(t *testing.T) {
	s := model.Sentence{ID: 1, Content: "Cities should ban cars downtown."}
	seen := make(map[string]bool)
	for _, typ := range model.FeedbackTypes {
		tpl := SpecificFeedback(typ, s)
		assert.Contains(t, tpl.Content, `"Cities should ban cars downtown."`, typ)
		assert.False(t, IsGeneric(tpl.Content), typ)
		assert.NotEmpty(t, tpl.Why)
		require.Len(t, tpl.How, 1)
		assert.False(t, seen[tpl.Content], "templates differ per type")
		seen[tpl.Content] = true
	}
}

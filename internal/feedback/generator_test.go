package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/essayfb/internal/llm"
	"github.com/ppiankov/essayfb/internal/model"
)

func TestTargetAndMinimum(t *testing.T) {
	tests := []struct {
		sentences int
		target    int
		minimum   int
	}{
		{0, 28, 21},
		{1, 28, 21},
		{5, 28, 21},
		{13, 29, 21},
		{20, 44, 33},
		{29, 64, 48},
		{100, 64, 48},
	}
	for _, tt := range tests {
		target := TargetCount(tt.sentences)
		assert.Equal(t, tt.target, target, "target for %d sentences", tt.sentences)
		assert.Equal(t, tt.minimum, MinimumCount(target), "minimum for %d sentences", tt.sentences)
	}
	assert.Equal(t, 10, MinimumCount(12))
}

func assertWellFormed(t *testing.T, items []model.FeedbackItem, n int) {
	t.Helper()
	seen := make(map[string]bool)
	for i, item := range items {
		assert.Equal(t, i+1, item.ID)
		require.Len(t, item.Plan, 1)
		id := item.Plan[0].What[0]
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, n)
		assert.Contains(t, model.FeedbackTypes, item.Type)
		assert.False(t, IsGeneric(item.Content), "item %d is generic: %q", item.ID, item.Content)

		key := DedupeKey(model.Entry{SentenceID: id, Type: item.Type, Content: item.Content})
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
	assert.LessOrEqual(t, len(items), MaxItems)
}

func TestGenerate_EmptyEssay(t *testing.T) {
	provider := answering("[]")
	res := NewGenerator(provider).Generate(context.Background(), nil)

	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, "Feedback highlights: none. 0 sentences addressed.", res.Summary)
	assert.Zero(t, provider.calls())
	assert.NoError(t, res.Err())
}

func TestGenerate_AlwaysFailing(t *testing.T) {
	for _, n := range []int{5, 6, 10, 12, 29} {
		sentences := makeSentences(n)
		provider := failing(llm.ErrRateLimit)

		res := NewGenerator(provider).Generate(context.Background(), sentences)

		minimum := MinimumCount(TargetCount(n))
		assert.GreaterOrEqual(t, len(res.Items), minimum, "n=%d", n)
		assertWellFormed(t, res.Items, n)
		for _, item := range res.Items {
			assert.Equal(t, "local", item.File)
			assert.Equal(t, model.SourceLocal, item.Source)
		}

		assert.Equal(t, 2, provider.calls(), "primary and supplement are both attempted")
		require.Len(t, res.Rounds, 2)
		for _, round := range res.Rounds {
			assert.False(t, round.OK)
			assert.Equal(t, llm.FailureRateLimit, round.Failure)
			assert.Equal(t, "Rate limit exceeded. Please try again later.", round.Message)
		}
		assert.ErrorIs(t, res.Err(), llm.ErrRateLimit)
		assert.Contains(t, res.States, StateFallbackApplied)
		assert.Equal(t, StateFinalized, res.States[len(res.States)-1])
	}
}

func TestGenerate_NilProvider(t *testing.T) {
	res := NewGenerator(nil).Generate(context.Background(), makeSentences(6))
	assert.GreaterOrEqual(t, len(res.Items), 21)
	assert.ErrorIs(t, res.Err(), llm.ErrNoProvider)
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewGenerator(answering("[]")).Generate(ctx, makeSentences(8))
	assert.GreaterOrEqual(t, len(res.Items), 21)
	assert.Error(t, res.Err())
}

func TestGenerate_SupplementAndFallback(t *testing.T) {
	sentences := makeSentences(10)
	eight := toJSON(distinctEntries(8, 10))
	provider := answering(eight, eight)

	res := NewGenerator(provider).Generate(context.Background(), sentences)

	assert.Equal(t, 2, provider.calls())
	assert.Contains(t, provider.requests[1].User, "Existing feedback items")
	assert.Equal(t, 0.6, provider.requests[1].Temperature)

	assert.Equal(t, []State{
		StateInitial,
		StatePrimaryRequested,
		StateSupplementRequested,
		StateFallbackApplied,
		StateFinalized,
	}, res.States)

	require.Len(t, res.Items, 21)
	for i := 0; i < 8; i++ {
		assert.Equal(t, "LLM", res.Items[i].File)
		assert.Equal(t, model.SourceService, res.Items[i].Source)
		assert.True(t, strings.HasPrefix(res.Items[i].Content, "Point "))
	}
	for _, item := range res.Items[8:] {
		assert.Equal(t, "local", item.File)
		assert.Equal(t, model.SourceLocal, item.Source)
	}
	assertWellFormed(t, res.Items, 10)
	assert.NoError(t, res.Err())
}

func TestGenerate_MinimumMetSkipsSupplement(t *testing.T) {
	sentences := makeSentences(5)
	provider := answering(toJSON(distinctEntries(25, 5)))

	res := NewGenerator(provider).Generate(context.Background(), sentences)

	assert.Equal(t, 1, provider.calls())
	assert.Equal(t, 0.5, provider.requests[0].Temperature)
	assert.Equal(t, 4096, provider.requests[0].MaxTokens)
	assert.Equal(t, []State{StateInitial, StatePrimaryRequested, StateMinimumMet, StateFinalized}, res.States)
	assert.Len(t, res.Items, 25)
	assertWellFormed(t, res.Items, 5)
}

func TestGenerate_FormulaRound(t *testing.T) {
	sentences := makeSentences(5)
	sentences[1].Content = `The force is $F = ma$ in every frame.`
	sentences[3].Content = `Energy is $E = mc^{2$ at rest.`

	formulaReply := toJSON([]wireEntry{{
		Content:    "State which frame the force law is measured in.",
		Type:       "Reasoning",
		SentenceID: 2,
		Why:        "Newton's law only holds in inertial frames.",
	}})
	provider := answering(toJSON(distinctEntries(25, 5)), formulaReply)

	res := NewGenerator(provider).Generate(context.Background(), sentences)

	require.Equal(t, 2, provider.calls())
	formulaReq := provider.requests[1]
	assert.Equal(t, 0.3, formulaReq.Temperature)
	assert.Contains(t, formulaReq.User, "[2] The force is $F = ma$")
	assert.Contains(t, formulaReq.User, "[4] Energy is")
	assert.NotContains(t, formulaReq.User, "[1] ")
	assert.Contains(t, formulaReq.System, "around 4 feedback items")

	assert.Contains(t, res.States, StateFormulaRequested)
	assert.NotContains(t, res.States, StateFallbackApplied)

	var local, frame bool
	for _, item := range res.Items {
		if item.File == "local" && item.Type == model.TypeOthers && item.Plan[0].What[0] == 4 {
			local = true
			assert.Contains(t, item.Plan[0].Why, "Parser hint")
		}
		if strings.HasPrefix(item.Content, "State which frame") {
			frame = true
		}
	}
	assert.True(t, local, "invalid notation produces a local entry")
	assert.True(t, frame, "formula round entries are merged")
	assertWellFormed(t, res.Items, 5)
}

func TestGenerate_MaxItems(t *testing.T) {
	sentences := makeSentences(30)
	provider := answering(toJSON(distinctEntries(90, 30)))

	res := NewGenerator(provider).Generate(context.Background(), sentences)
	assert.Len(t, res.Items, MaxItems)
	assert.Equal(t, 64, res.Target)
	assertWellFormed(t, res.Items, 30)
}

func TestGenerate_GenericRewrite(t *testing.T) {
	sentences := makeSentences(5)
	entries := distinctEntries(24, 5)
	entries = append(entries, wireEntry{
		Content:    "Consider tightening wording in this sentence.",
		Type:       "word   USAGE",
		SentenceID: 2,
		Why:        "Wordy.",
	})
	res := NewGenerator(answering(toJSON(entries))).Generate(context.Background(), sentences)

	last := res.Items[len(res.Items)-1]
	assert.Equal(t, model.TypeWordUsage, last.Type)
	assert.Contains(t, last.Content, Snippet(sentences[1].Content))
	assert.Equal(t, sentences[1].Content, last.Plan[0].Sentence)
	assertWellFormed(t, res.Items, 5)
}

func TestGenerate_DropsOutOfRangeSentences(t *testing.T) {
	sentences := makeSentences(5)
	entries := []wireEntry{
		{Content: "Zero.", Type: "Claim", SentenceID: 0, Why: "w"},
		{Content: "Too high.", Type: "Claim", SentenceID: 6, Why: "w"},
		{Content: "Fraction.", Type: "Claim", SentenceID: 2.5, Why: "w"},
		{Content: "Stringly typed id is fine.", Type: "Claim", SentenceID: "3", Why: "w"},
		{Content: "No why.", Type: "Claim", SentenceID: 1, Why: "  "},
	}
	res := NewGenerator(answering(toJSON(entries))).Generate(context.Background(), sentences)

	assert.Equal(t, "Stringly typed id is fine.", res.Items[0].Content)
	assert.Equal(t, []int{3}, res.Items[0].Plan[0].What)
	assertWellFormed(t, res.Items, 5)
	assert.Equal(t, 1, res.Rounds[0].Parsed)
}

func TestGenerate_MalformedResponses(t *testing.T) {
	provider := answering("Sure! Here is some feedback: not json at all", "```json\n[{broken\n```")
	res := NewGenerator(provider).Generate(context.Background(), makeSentences(7))

	assert.GreaterOrEqual(t, len(res.Items), 21)
	for _, round := range res.Rounds {
		assert.True(t, round.OK, "malformed text is an empty round, not a failure")
		assert.Zero(t, round.Parsed)
	}
	assert.NoError(t, res.Err())
}

func TestResult_Err(t *testing.T) {
	boom := errors.New("boom")
	res := &Result{Rounds: []Round{{Err: boom}, {OK: true}}}
	assert.NoError(t, res.Err())

	res = &Result{Rounds: []Round{{Err: errors.New("first")}, {Err: boom}}}
	assert.Equal(t, boom, res.Err())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "supplement_requested", StateSupplementRequested.String())
	text, err := StateFinalized.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "finalized", string(text))
}

func TestState_UnmarshalText(t *testing.T) {
	var s State
	require.NoError(t, s.UnmarshalText([]byte("formula_requested")))
	assert.Equal(t, StateFormulaRequested, s)
	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
}

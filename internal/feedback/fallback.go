package feedback

import (
	"sort"

	"github.com/ppiankov/essayfb/internal/model"
)

// fallbackRotation is the type cycle used when synthesizing entries
var fallbackRotation = []model.FeedbackType{
	model.TypeReasoning,
	model.TypeEvidence,
	model.TypeOrganization,
	model.TypeWordUsage,
	model.TypeOrthography,
	model.TypeClaim,
}

// Synthesize builds up to needed templated entries without calling the
// generation service. Least-covered sentences come first; the sentence cursor
// and the type rotation advance together. When a (sentence, type) pair was
// already produced, or its template duplicates an existing entry, the next
// type in the rotation is tried instead.
func Synthesize(sentences []model.Sentence, existing []model.Entry, needed int) []model.Entry {
	if needed <= 0 || len(sentences) == 0 {
		return nil
	}

	coverage := make(map[int]int)
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		coverage[e.SentenceID]++
		taken[DedupeKey(e)] = true
	}

	sorted := make([]model.Sentence, len(sentences))
	copy(sorted, sentences)
	sort.SliceStable(sorted, func(i, j int) bool {
		return coverage[sorted[i].ID] < coverage[sorted[j].ID]
	})

	type pair struct {
		sentence int
		kind     model.FeedbackType
	}
	visited := make(map[pair]bool)
	capacity := len(sorted) * len(fallbackRotation)

	var out []model.Entry
	for idx := 0; len(out) < needed && len(visited) < capacity; idx++ {
		s := sorted[idx%len(sorted)]
		for k := 0; k < len(fallbackRotation); k++ {
			t := fallbackRotation[(idx+k)%len(fallbackRotation)]
			p := pair{sentence: s.ID, kind: t}
			if visited[p] {
				continue
			}
			visited[p] = true

			entry := templatedEntry(t, s)
			key := DedupeKey(entry)
			if taken[key] {
				continue
			}
			taken[key] = true
			out = append(out, entry)
			break
		}
	}
	return out
}

func templatedEntry(t model.FeedbackType, s model.Sentence) model.Entry {
	tpl := SpecificFeedback(t, s)
	return model.Entry{
		Content:      tpl.Content,
		Type:         t,
		SentenceID:   s.ID,
		SentenceText: s.Content,
		Why:          tpl.Why,
		How:          tpl.How,
		Source:       model.SourceLocal,
	}
}

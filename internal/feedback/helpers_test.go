package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ppiankov/essayfb/internal/llm"
	"github.com/ppiankov/essayfb/internal/model"
)

// reply is one scripted provider answer
type reply struct {
	text string
	err  error
}

// scriptedProvider answers calls in order; once the script runs out it
// repeats the last reply
type scriptedProvider struct {
	mu       sync.Mutex
	replies  []reply
	requests []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string                       { return "scripted" }
func (p *scriptedProvider) IsAvailable(_ context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.replies) == 0 {
		return nil, fmt.Errorf("no scripted reply")
	}
	r := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return &llm.CompletionResponse{Text: r.text}, nil
}

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func failing(err error) *scriptedProvider {
	return &scriptedProvider{replies: []reply{{err: err}}}
}

func answering(texts ...string) *scriptedProvider {
	p := &scriptedProvider{}
	for _, t := range texts {
		p.replies = append(p.replies, reply{text: t})
	}
	return p
}

func makeSentences(n int) []model.Sentence {
	out := make([]model.Sentence, n)
	for i := range out {
		out[i] = model.Sentence{
			ID:        i + 1,
			Paragraph: i/4 + 1,
			Content:   fmt.Sprintf("Sentence number %d discusses renewable energy adoption in region %d.", i+1, i+1),
		}
	}
	return out
}

type wireEntry struct {
	Content      string `json:"content"`
	Type         string `json:"type"`
	SentenceID   any    `json:"sentenceId"`
	SentenceText string `json:"sentenceText,omitempty"`
	Why          string `json:"why"`
	How          []any  `json:"how,omitempty"`
}

func toJSON(entries []wireEntry) string {
	b, err := json.Marshal(entries)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// distinctEntries builds count specific entries spread over n sentences
func distinctEntries(count, n int) []wireEntry {
	out := make([]wireEntry, count)
	for i := range out {
		out[i] = wireEntry{
			Content:    fmt.Sprintf("Point %d: name the specific policy mechanism behind claim %d.", i+1, i%n+1),
			Type:       string(model.FeedbackTypes[i%len(model.FeedbackTypes)]),
			SentenceID: i%n + 1,
			Why:        fmt.Sprintf("Reason %d ties the comment to the sentence.", i+1),
		}
	}
	return out
}

// Package feedback synthesizes bounded, deduplicated, sentence-specific
// writing feedback from a text-generation service, repairing and topping up
// whatever the service returns.
package feedback

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/llm"
	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/notation"
)

const (
	MinTarget    = 28
	MaxItems     = 64
	minimumFloor = 10

	formulaTargetCap = 18
)

// TargetCount is round(sentences × 2.2) clamped to [28, 64]
func TargetCount(sentenceCount int) int {
	t := int(math.Round(float64(sentenceCount) * 2.2))
	if t < MinTarget {
		return MinTarget
	}
	if t > MaxItems {
		return MaxItems
	}
	return t
}

// MinimumCount is max(10, floor(0.75 × target))
func MinimumCount(target int) int {
	m := target * 3 / 4
	if m < minimumFloor {
		return minimumFloor
	}
	return m
}

// Generator drives the generation rounds for one essay at a time. It holds no
// per-run state, so one Generator can serve concurrent runs.
type Generator struct {
	provider  llm.Provider
	validator *notation.Validator
	params    model.GenerationConfig
	logger    *zap.Logger
	tracer    trace.Tracer
}

// Option configures a Generator
type Option func(*Generator)

// WithValidator sets the notation validator used in the formula round
func WithValidator(v *notation.Validator) Option {
	return func(g *Generator) { g.validator = v }
}

// WithParams sets per-round sampling parameters
func WithParams(p model.GenerationConfig) Option {
	return func(g *Generator) { g.params = p }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithTracer sets the tracer
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// NewGenerator creates a Generator. A nil provider makes every service round
// fail, leaving output to the local stages.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		params:   model.DefaultConfig().Generation,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("github.com/ppiankov/essayfb/internal/feedback"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.validator == nil {
		g.validator = notation.NewValidator(nil, 0)
	}
	if g.params.MaxOutputTokens <= 0 {
		g.params.MaxOutputTokens = 4096
	}
	return g
}

// Result is the outcome of one pipeline run
type Result struct {
	RunID   string               `json:"run_id,omitempty"`
	Items   []model.FeedbackItem `json:"items"`
	Summary string               `json:"summary"`
	Target  int                  `json:"target"`
	Minimum int                  `json:"minimum"`
	Rounds  []Round              `json:"rounds,omitempty"`
	States  []State              `json:"states,omitempty"`
}

// Round records one generation-service call
type Round struct {
	State   State           `json:"state"`
	OK      bool            `json:"ok"`
	Parsed  int             `json:"parsed"` // valid entries in the response
	Total   int             `json:"total"`  // accumulated entries after merging
	Failure llm.FailureKind `json:"failure,omitempty"`
	Message string          `json:"message,omitempty"`
	Err     error           `json:"-"`
}

// Err returns the last service failure when every attempted round failed
func (r *Result) Err() error {
	var last error
	for _, round := range r.Rounds {
		if round.OK {
			return nil
		}
		last = round.Err
	}
	return last
}

// Generate produces feedback items for sentences. Service failures never
// abort the run; with no sentences it returns an empty result without
// contacting the service.
func (g *Generator) Generate(ctx context.Context, sentences []model.Sentence) *Result {
	if len(sentences) == 0 {
		return &Result{Items: []model.FeedbackItem{}, Summary: Summarize(nil)}
	}

	ctx, span := g.tracer.Start(ctx, "feedback.generate",
		trace.WithAttributes(attribute.Int("essay.sentences", len(sentences))))
	defer span.End()

	r := g.newRun(sentences)
	state := StateInitial
	for state != StateFinalized {
		r.states = append(r.states, state)
		state = r.step(ctx, state)
	}
	r.states = append(r.states, StateFinalized)

	items := r.finalize()
	span.SetAttributes(attribute.Int("feedback.items", len(items)))
	r.log.Info("feedback generated",
		zap.Int("items", len(items)),
		zap.Int("target", r.target),
		zap.Int("minimum", r.minimum),
		zap.Int("rounds", len(r.rounds)))

	return &Result{
		RunID:   r.id,
		Items:   items,
		Summary: Summarize(items),
		Target:  r.target,
		Minimum: r.minimum,
		Rounds:  r.rounds,
		States:  r.states,
	}
}

// run is the per-invocation state; nothing in it is shared across runs
type run struct {
	g         *Generator
	id        string
	log       *zap.Logger
	sentences []model.Sentence
	formula   []model.Sentence
	entries   []model.Entry
	target    int
	minimum   int
	rounds    []Round
	states    []State
}

func (g *Generator) newRun(sentences []model.Sentence) *run {
	id := uuid.NewString()
	return &run{
		g:         g,
		id:        id,
		log:       g.logger.With(zap.String("run_id", id), zap.Int("sentences", len(sentences))),
		sentences: sentences,
	}
}

func (r *run) merge(entries []model.Entry) {
	r.entries = Dedupe(append(r.entries, entries...))
}

func (r *run) short() bool {
	return len(r.entries) < r.minimum
}

// request issues one service call and returns its normalized entries. A
// failed call or an unparseable response yields no entries.
func (r *run) request(ctx context.Context, state State, system, user string, temperature float64) ([]model.Entry, Round) {
	ctx, span := r.g.tracer.Start(ctx, "feedback."+state.String())
	defer span.End()

	round := Round{State: state}
	if r.g.provider == nil {
		round.Err = llm.ErrNoProvider
		round.Failure = llm.FailureOther
		round.Message = llm.UserMessage(round.Failure, round.Err)
		return nil, round
	}

	resp, err := r.g.provider.Complete(ctx, llm.CompletionRequest{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   r.g.params.MaxOutputTokens,
	})
	if err != nil {
		round.Err = err
		round.Failure = llm.ClassifyError(err)
		round.Message = llm.UserMessage(round.Failure, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(round.Failure))
		r.log.Warn("generation round failed",
			zap.Stringer("state", state),
			zap.String("failure", string(round.Failure)),
			zap.Error(err))
		return nil, round
	}

	entries := Dedupe(Normalize(ParseResponse(resp.Text), r.sentences, model.SourceService))
	round.OK = true
	round.Parsed = len(entries)
	span.SetAttributes(attribute.Int("feedback.parsed", len(entries)))
	r.log.Debug("generation round parsed",
		zap.Stringer("state", state),
		zap.Int("parsed", len(entries)),
		zap.Int("tokens", resp.TokensUsed))
	return entries, round
}

func (r *run) record(round Round) {
	round.Total = len(r.entries)
	r.rounds = append(r.rounds, round)
}

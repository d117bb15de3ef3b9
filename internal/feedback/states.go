package feedback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/segment"
)

// State is a stage of the generation state machine
type State int

const (
	StateInitial State = iota
	StatePrimaryRequested
	StateMinimumMet
	StateSupplementRequested
	StateFormulaRequested
	StateFallbackApplied
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StatePrimaryRequested:
		return "primary_requested"
	case StateMinimumMet:
		return "minimum_met"
	case StateSupplementRequested:
		return "supplement_requested"
	case StateFormulaRequested:
		return "formula_requested"
	case StateFallbackApplied:
		return "fallback_applied"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON output
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText
func (s *State) UnmarshalText(text []byte) error {
	for st := StateInitial; st <= StateFinalized; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// step executes state s and returns the next state
func (r *run) step(ctx context.Context, s State) State {
	switch s {
	case StateInitial:
		r.target = TargetCount(len(r.sentences))
		r.minimum = MinimumCount(r.target)
		for _, sentence := range r.sentences {
			if segment.ContainsMath(sentence.Content) {
				r.formula = append(r.formula, sentence)
			}
		}
		return StatePrimaryRequested

	case StatePrimaryRequested:
		entries, round := r.request(ctx, s, SystemPrompt(r.target), UserPrompt(r.sentences), r.g.params.PrimaryTemperature)
		r.merge(entries)
		r.record(round)
		if r.short() {
			return StateSupplementRequested
		}
		return StateMinimumMet

	case StateMinimumMet, StateSupplementRequested:
		if s == StateSupplementRequested {
			entries, round := r.request(ctx, s, SystemPrompt(r.target),
				SupplementPrompt(r.sentences, r.entries, r.target), r.g.params.SupplementTemperature)
			r.merge(entries)
			r.record(round)
		}
		if len(r.formula) > 0 {
			return StateFormulaRequested
		}
		return r.afterCalls()

	case StateFormulaRequested:
		target := len(r.formula) * 2
		if target > formulaTargetCap {
			target = formulaTargetCap
		}
		entries, round := r.request(ctx, s, SystemPrompt(target), FormulaPrompt(r.formula), r.g.params.FormulaTemperature)
		local, err := r.g.validator.Validate(context.WithoutCancel(ctx), r.formula)
		if err != nil {
			r.log.Warn("notation validation failed", zap.Error(err))
		}
		r.merge(append(entries, local...))
		r.record(round)
		return r.afterCalls()

	case StateFallbackApplied:
		extra := Synthesize(r.sentences, r.entries, r.minimum-len(r.entries))
		r.log.Info("fallback synthesized", zap.Int("needed", r.minimum-len(r.entries)), zap.Int("built", len(extra)))
		r.merge(extra)
		return StateFinalized
	}

	return StateFinalized
}

func (r *run) afterCalls() State {
	if r.short() {
		return StateFallbackApplied
	}
	return StateFinalized
}

// finalize enforces specificity, dedupes, truncates and assigns output ids
func (r *run) finalize() []model.FeedbackItem {
	enforcer := NewEnforcer(r.sentences)
	entries := Dedupe(enforcer.Apply(r.entries))
	if len(entries) < r.minimum {
		// rewriting can collapse entries onto one key; top up once more
		extra := Synthesize(r.sentences, entries, r.minimum-len(entries))
		entries = Dedupe(append(entries, enforcer.Apply(extra)...))
	}
	if len(entries) > MaxItems {
		entries = entries[:MaxItems]
	}

	items := make([]model.FeedbackItem, len(entries))
	for i, e := range entries {
		items[i] = ToFeedbackItem(e, i+1)
	}
	return items
}

package feedback

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

const snippetLimit = 96

var (
	notationMarker = regexp.MustCompile(`\\\[|\\\]|\\\(|\\\)|\$\$|\$|\\[a-zA-Z]+\{`)
	nonWord        = regexp.MustCompile(`[^a-z0-9\s-]`)
)

var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "into": true, "because": true,
	"therefore": true, "which": true, "their": true, "about": true, "should": true, "could": true,
	"would": true, "being": true, "where": true, "while": true, "when": true, "have": true,
	"has": true, "been": true, "were": true, "your": true, "more": true, "than": true,
}

// Template is the sentence-grounded replacement for an entry's text fields
type Template struct {
	Content string
	Why     string
	How     []model.HowItem
}

// Snippet collapses whitespace and caps the sentence at 96 characters.
// Sentences carrying math notation are kept whole so delimiters survive.
func Snippet(sentence string) string {
	cleaned := strings.Join(strings.Fields(sentence), " ")
	if cleaned == "" {
		return "this sentence"
	}
	if notationMarker.MatchString(cleaned) {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit-3]) + "..."
	}
	return cleaned
}

// KeyPhrases returns up to three distinct non-stopword words of at least four
// characters, in sentence order
func KeyPhrases(sentence string) []string {
	words := strings.Fields(nonWord.ReplaceAllString(strings.ToLower(sentence), " "))
	var out []string
	seen := make(map[string]bool)
	for _, w := range words {
		if len(w) < 4 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// SpecificFeedback builds the deterministic template for type t anchored on s
func SpecificFeedback(t model.FeedbackType, s model.Sentence) Template {
	snippet := Snippet(s.Content)
	focus := ""
	if phrases := KeyPhrases(s.Content); len(phrases) > 0 {
		focus = fmt.Sprintf(" (focus: %s)", strings.Join(phrases, ", "))
	}

	build, ok := templates[t]
	if !ok {
		build = templates[model.TypeOthers]
	}
	tpl := build(snippet)
	tpl.Content += focus
	return tpl
}

func how(title, strategy string) []model.HowItem {
	return []model.HowItem{{Title: title, Strategy: strategy}}
}

var templates = map[model.FeedbackType]func(snippet string) Template{
	model.TypeWordUsage: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`In "%s", swap broad wording for precise terms and avoid stacking abstractions so the point reads on first pass.`, snippet),
			Why:     "Precise wording at the sentence level keeps readers from guessing what you mean.",
			How:     how("Tighten wording", "Replace one vague phrase with a concrete term and keep one main idea per clause."),
		}
	},
	model.TypeOrthography: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`The punctuation in "%s" carries too much load. Simplify clause boundaries so every clause has a clear subject and verb.`, snippet),
			Why:     "Clean punctuation and grammar lower reading effort.",
			How:     how("Fix mechanics", "Split long clauses or re-punctuate to remove comma splices and ambiguous attachments."),
		}
	},
	model.TypeOrganization: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`The transition into "%s" is weak. Add a linking phrase that says how this sentence extends or contrasts the previous point.`, snippet),
			Why:     "Explicit transitions keep paragraph flow and argument structure visible.",
			How:     how("Add transition logic", "Open the sentence with a connector naming its role: continuation, contrast, or consequence."),
		}
	},
	model.TypeEvidence: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`The claim in "%s" needs concrete support. Add one specific example, figure, or citation tied directly to it.`, snippet),
			Why:     "Evidence anchored to the sentence builds credibility and curbs overgeneralization.",
			How:     how("Attach evidence", "Insert one verifiable fact and state how it supports this sentence."),
		}
	},
	model.TypeClaim: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`The stance in "%s" stays implicit. Rewrite it so the core claim and its scope are stated in one line.`, snippet),
			Why:     "A direct, bounded claim lets readers track your position across the paragraph.",
			How:     how("Make claim explicit", "Use one assertion verb and name exactly what is argued and under which condition."),
		}
	},
	model.TypeRebuttal: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`For "%s", raise a stronger counterpoint or limitation before returning to your main position.`, snippet),
			Why:     "A developed rebuttal shows you can handle other readings instead of skipping them.",
			How:     how("Develop rebuttal", "State one plausible objection, then answer it with a reason or evidence."),
		}
	},
	model.TypeReasoning: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`The logical step in "%s" is compressed. Add one explicit link showing how the premise leads to the conclusion.`, snippet),
			Why:     "Explicit reasoning exposes hidden jumps and makes the argument testable.",
			How:     how("Expose logic", "Insert a because/therefore bridge that names the causal or deductive relation."),
		}
	},
	model.TypeOthers: func(snippet string) Template {
		return Template{
			Content: fmt.Sprintf(`In "%s", make the purpose of the sentence explicit and tie it to the paragraph goal.`, snippet),
			Why:     "Sentence-specific revision improves coherence and interpretability.",
			How:     how("Clarify intent", "Revise the sentence so its function and contribution are immediately visible."),
		}
	},
}

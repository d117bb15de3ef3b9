package model

// FeedbackType is one of the eight canonical feedback categories
type FeedbackType string

const (
	TypeClaim        FeedbackType = "Claim"
	TypeReasoning    FeedbackType = "Reasoning"
	TypeEvidence     FeedbackType = "Evidence"
	TypeRebuttal     FeedbackType = "Rebuttal"
	TypeOthers       FeedbackType = "Others"
	TypeOrganization FeedbackType = "Organization"
	TypeWordUsage    FeedbackType = "Word Usage"
	TypeOrthography  FeedbackType = "Orthography"
)

// FeedbackTypes lists the canonical types in prompt order
var FeedbackTypes = []FeedbackType{
	TypeClaim,
	TypeReasoning,
	TypeEvidence,
	TypeRebuttal,
	TypeOthers,
	TypeOrganization,
	TypeWordUsage,
	TypeOrthography,
}

// HowItem is a single revision strategy
type HowItem struct {
	Title    string `json:"title"`
	Strategy string `json:"strategy"`
}

// Entry is a normalized feedback candidate while a pipeline run is in flight
type Entry struct {
	Content      string       `json:"content"`
	Type         FeedbackType `json:"type"`
	SentenceID   int          `json:"sentenceId"`
	SentenceText string       `json:"sentenceText"`
	Why          string       `json:"why"`
	How          []HowItem    `json:"how,omitempty"`
	Source       Source       `json:"-"`
}

// Source discriminates service-derived entries from locally synthesized ones
type Source int

const (
	SourceLocal   Source = 0 // Notation check or fallback synthesis
	SourceService Source = 1 // Parsed from a generation-service response
)

// Plan ties a feedback item to the sentences it addresses
type Plan struct {
	Sentence string    `json:"sentence"`
	What     []int     `json:"what"`
	Why      string    `json:"why"`
	How      []HowItem `json:"how"`
}

// FeedbackItem is a finalized, trusted feedback item
type FeedbackItem struct {
	ID            int          `json:"id"`
	Content       string       `json:"content"`
	Type          FeedbackType `json:"type"`
	Actionability float64      `json:"actionability"`
	Justification float64      `json:"justification"`
	Sentiment     float64      `json:"sentiment"`
	Specificity   float64      `json:"specificity"`
	Engagement    float64      `json:"engagement"`
	Source        Source       `json:"source"`
	File          string       `json:"file"`
	Plan          []Plan       `json:"plan"`
	Addressed     bool         `json:"addressed"` // Flipped by the review UI, never by the pipeline
}

// SentenceIDs returns every sentence id the item's plan addresses
func (f FeedbackItem) SentenceIDs() []int {
	var ids []int
	for _, p := range f.Plan {
		ids = append(ids, p.What...)
	}
	return ids
}

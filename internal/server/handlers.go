package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/feedback"
	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/segment"
)

var errNoInput = errors.New("provide either text or sentences")

type segmentRequest struct {
	Text string `json:"text"`
}

type segmentResponse struct {
	Sentences []model.Sentence `json:"sentences"`
}

type feedbackRequest struct {
	Text      string           `json:"text,omitempty"`
	Sentences []model.Sentence `json:"sentences,omitempty"`
}

type feedbackResponse struct {
	RunID     string               `json:"run_id,omitempty"`
	Sentences []model.Sentence     `json:"sentences"`
	Items     []model.FeedbackItem `json:"items"`
	Summary   string               `json:"summary"`
	Target    int                  `json:"target"`
	Minimum   int                  `json:"minimum"`
	Rounds    []feedback.Round     `json:"rounds"`
	Failure   string               `json:"failure,omitempty"`
}

type summaryRequest struct {
	Items []model.FeedbackItem `json:"items"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// POST /api/segment
func (s *Server) segment(c *gin.Context) {
	var req segmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sentences := segment.Segment(req.Text)
	if sentences == nil {
		sentences = []model.Sentence{}
	}
	respondOK(c, segmentResponse{Sentences: sentences})
}

// POST /api/feedback
// Accepts raw text or an already segmented sentence list. Service failures
// are reported per round; the request itself still succeeds.
func (s *Server) feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var sentences []model.Sentence
	switch {
	case len(req.Sentences) > 0:
		if err := checkSentences(req.Sentences); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_sentences", err)
			return
		}
		sentences = req.Sentences
	case strings.TrimSpace(req.Text) != "":
		sentences = segment.Segment(req.Text)
	case req.Sentences != nil:
		sentences = []model.Sentence{}
	default:
		respondError(c, http.StatusBadRequest, "invalid_request", errNoInput)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result := s.pipeline.Generate(ctx, sentences)
	resp := feedbackResponse{
		RunID:     result.RunID,
		Sentences: sentences,
		Items:     result.Items,
		Summary:   result.Summary,
		Target:    result.Target,
		Minimum:   result.Minimum,
		Rounds:    result.Rounds,
	}
	if resp.Sentences == nil {
		resp.Sentences = []model.Sentence{}
	}
	if resp.Rounds == nil {
		resp.Rounds = []feedback.Round{}
	}
	if err := result.Err(); err != nil {
		resp.Failure = result.Rounds[len(result.Rounds)-1].Message
		s.logger.Warn("every generation round failed", zap.String("run_id", result.RunID), zap.Error(err))
	}
	respondOK(c, resp)
}

// POST /api/summary
func (s *Server) summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	respondOK(c, summaryResponse{Summary: feedback.Summarize(req.Items)})
}

// checkSentences requires dense 1-based ids in order, non-blank content and
// 1-based paragraphs
func checkSentences(sentences []model.Sentence) error {
	for i, s := range sentences {
		if s.ID != i+1 {
			return fmt.Errorf("sentence %d: id %d, want %d", i+1, s.ID, i+1)
		}
		if strings.TrimSpace(s.Content) == "" {
			return fmt.Errorf("sentence %d: blank content", s.ID)
		}
		if s.Paragraph < 1 {
			return fmt.Errorf("sentence %d: paragraph %d, want >= 1", s.ID, s.Paragraph)
		}
	}
	return nil
}

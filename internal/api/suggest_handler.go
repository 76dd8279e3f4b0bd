package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/suggest"
)

// SuggestHandler exposes the text-suggestion collaborator
type SuggestHandler struct {
	suggester suggest.Suggester
	log       zerolog.Logger
}

// NewSuggestHandler creates a new SuggestHandler
func NewSuggestHandler(suggester suggest.Suggester, log zerolog.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggester: suggester,
		log:       log.With().Str("handler", "suggest").Logger(),
	}
}

type suggestRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// Suggest handles POST /v1/suggest. The call is bound to the request
// context: a client that goes away cancels the in-flight generation, so a
// late result is discarded rather than applied.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	switch suggest.Mode(req.Mode) {
	case suggest.ModeTags:
		c.JSON(http.StatusOK, gin.H{"tags": h.suggester.Tags(ctx, req.Text)})
	case suggest.ModeGrammar, suggest.ModeExpand, suggest.ModeTone:
		c.JSON(http.StatusOK, gin.H{"text": h.suggester.Enhance(ctx, suggest.Mode(req.Mode), req.Text)})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode: " + req.Mode})
	}
}

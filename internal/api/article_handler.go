package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/repository"
)

// ArticleHandler handles the feed, the editor and comments
type ArticleHandler struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(repos *repository.Repositories, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		repos: repos,
		log:   log.With().Str("handler", "articles").Logger(),
	}
}

// List handles GET /v1/articles — the feed, newest first. An optional
// ?author= query narrows it to one author's posts (profile view).
func (h *ArticleHandler) List(c *gin.Context) {
	articles := h.repos.Articles.ListAll()
	if author := c.Query("author"); author != "" {
		filtered := make([]models.Article, 0, len(articles))
		for _, a := range articles {
			if a.AuthorID == author {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}
	c.JSON(http.StatusOK, articles)
}

// Get handles GET /v1/articles/:id. The response always carries blocks:
// legacy articles without them get their content wrapped as one paragraph.
func (h *ArticleHandler) Get(c *gin.Context) {
	article := h.repos.Articles.GetByID(c.Param("id"))
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	article.Blocks = article.DisplayBlocks()
	c.JSON(http.StatusOK, article)
}

type articleRequest struct {
	Title  string                `json:"title"`
	Blocks []models.ArticleBlock `json:"blocks"`
	Tags   []string              `json:"tags"`
}

func (r *articleRequest) validate() *gin.H {
	if strings.TrimSpace(r.Title) == "" {
		return &gin.H{"error": "title is required"}
	}
	for _, b := range r.Blocks {
		if !models.ValidBlockTypes[b.Type] {
			return &gin.H{"error": "unknown block type: " + string(b.Type)}
		}
	}
	return nil
}

// Publish handles POST /v1/articles
func (h *ArticleHandler) Publish(c *gin.Context) {
	current := h.repos.Session.Current()
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errResp := req.validate(); errResp != nil {
		c.JSON(http.StatusBadRequest, errResp)
		return
	}

	article := models.Article{
		ID:            uuid.New().String(),
		AuthorID:      current.ID,
		Title:         req.Title,
		Preview:       models.PreviewText(req.Blocks),
		Content:       "See blocks",
		Blocks:        req.Blocks,
		Tags:          req.Tags,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Views:         0,
		CommentsCount: 0,
		Comments:      []models.Comment{},
	}

	if err := h.repos.Articles.Save(article); err != nil {
		h.log.Error().Err(err).Msg("Failed to save article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id. Creation time, view count and the
// comment thread survive the edit; the preview is recomputed.
func (h *ArticleHandler) Update(c *gin.Context) {
	existing, ok := h.requireAuthor(c)
	if !ok {
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errResp := req.validate(); errResp != nil {
		c.JSON(http.StatusBadRequest, errResp)
		return
	}

	updated := *existing
	updated.Title = req.Title
	updated.Blocks = req.Blocks
	updated.Tags = req.Tags
	updated.Preview = models.PreviewText(req.Blocks)
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := h.repos.Articles.Save(updated); err != nil {
		h.log.Error().Err(err).Str("article_id", updated.ID).Msg("Failed to save article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save article"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	existing, ok := h.requireAuthor(c)
	if !ok {
		return
	}

	if err := h.repos.Articles.DeleteByID(existing.ID); err != nil {
		h.log.Error().Err(err).Str("article_id", existing.ID).Msg("Failed to delete article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type commentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /v1/articles/:id/comments
func (h *ArticleHandler) AddComment(c *gin.Context) {
	current := h.repos.Session.Current()
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		AuthorID:  current.ID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	article, err := h.repos.Articles.AddComment(c.Param("id"), comment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to add comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// requireAuthor loads the article and checks the session user wrote it.
func (h *ArticleHandler) requireAuthor(c *gin.Context) (*models.Article, bool) {
	article := h.repos.Articles.GetByID(c.Param("id"))
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return nil, false
	}

	current := h.repos.Session.Current()
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return nil, false
	}
	if article.AuthorID != current.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only edit your own articles"})
		return nil, false
	}
	return article, true
}

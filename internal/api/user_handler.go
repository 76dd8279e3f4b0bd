package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/repository"
)

// UserHandler handles the people directory and profile endpoints
type UserHandler struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(repos *repository.Repositories, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		repos: repos,
		log:   log.With().Str("handler", "users").Logger(),
	}
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.repos.Users.ListAll())
}

// Get handles GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user := h.repos.Users.GetByID(c.Param("id"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByHandle handles GET /v1/users/by-handle/:handle
func (h *UserHandler) GetByHandle(c *gin.Context) {
	user := h.repos.Users.GetByHandle(c.Param("handle"))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	TelegramHandle string   `json:"telegramHandle"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	FullName       string   `json:"fullName"`
	AvatarURL      string   `json:"avatarUrl"`
	BannerURL      string   `json:"bannerUrl"`
	Bio            string   `json:"bio"`
	Tags           []string `json:"tags"`
}

// Update handles PUT /v1/users/:id — a full profile replace. Only the
// logged-in user can edit their own profile, and joinedAt is immutable.
// The session snapshot refresh is the repository's job, not this handler's.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	existing := h.repos.Users.GetByID(id)
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	current := h.repos.Session.Current()
	if current == nil || current.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only edit your own profile"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated := models.User{
		ID:             id,
		TelegramHandle: req.TelegramHandle,
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		AvatarURL:      req.AvatarURL,
		BannerURL:      req.BannerURL,
		Bio:            req.Bio,
		Tags:           req.Tags,
		JoinedAt:       existing.JoinedAt,
	}

	if err := h.repos.Users.Save(updated); err != nil {
		h.log.Error().Err(err).Str("user_id", id).Msg("Failed to save user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

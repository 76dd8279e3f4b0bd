package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/new-north/platform-api/internal/auth"
	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/repository"
	"github.com/new-north/platform-api/internal/validation"
)

// AuthHandler handles registration, login and the session endpoint
type AuthHandler struct {
	repos *repository.Repositories
	svc   *auth.Service
	flow  *auth.TelegramFlow
	log   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(repos *repository.Repositories, log zerolog.Logger) *AuthHandler {
	svc := auth.NewService(repos.Users, repos.Session)
	return &AuthHandler{
		repos: repos,
		svc:   svc,
		flow:  svc.NewTelegramFlow(),
		log:   log.With().Str("handler", "auth").Logger(),
	}
}

type registerRequest struct {
	TelegramHandle string   `json:"telegramHandle"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	FullName       string   `json:"fullName"`
	AvatarURL      string   `json:"avatarUrl"`
	BannerURL      string   `json:"bannerUrl"`
	Bio            string   `json:"bio"`
	Tags           []string `json:"tags"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if errs := validation.Registration(req.TelegramHandle, req.Email, req.Password, req.FullName, req.Bio); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	// Input hygiene only. The store itself stays permissive about
	// duplicate handles.
	if h.repos.Users.GetByHandle(req.TelegramHandle) != nil {
		c.JSON(http.StatusConflict, gin.H{
			"errors": []validation.FieldError{{Field: "telegramHandle", Message: "handle is already taken"}},
		})
		return
	}

	user := models.User{
		ID:             uuid.New().String(),
		TelegramHandle: req.TelegramHandle,
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		AvatarURL:      req.AvatarURL,
		BannerURL:      req.BannerURL,
		Bio:            req.Bio,
		Tags:           req.Tags,
		JoinedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repos.Users.Save(user); err != nil {
		h.log.Error().Err(err).Msg("Failed to save user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}
	if err := h.svc.Login(user); err != nil {
		h.log.Error().Err(err).Msg("Failed to set session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set session"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if errs := validation.Login(req.Email, req.Password); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	user, err := h.svc.Credentials(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to set session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Session handles GET /v1/session
func (h *AuthHandler) Session(c *gin.Context) {
	user := h.repos.Session.Current()
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type telegramStartRequest struct {
	TelegramHandle string `json:"telegramHandle"`
}

// TelegramStart handles POST /v1/auth/telegram/start
func (h *AuthHandler) TelegramStart(c *gin.Context) {
	var req telegramStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := validation.Handle(req.TelegramHandle); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	h.flow.Start(req.TelegramHandle)
	c.JSON(http.StatusOK, gin.H{"step": int(h.flow.Step())})
}

type telegramVerifyRequest struct {
	Code string `json:"code"`
}

// TelegramVerify handles POST /v1/auth/telegram/verify
func (h *AuthHandler) TelegramVerify(c *gin.Context) {
	var req telegramVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Format check happens before the flow (and so before any store
	// access); a malformed code is a validation failure, not a rejection.
	if errs := validation.AuthCode(req.Code); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs, "step": int(h.flow.Step())})
		return
	}

	user, err := h.flow.Verify(req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "step": int(h.flow.Step())})
			return
		}
		h.log.Error().Err(err).Msg("Failed to set session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// TelegramChange handles POST /v1/auth/telegram/change
func (h *AuthHandler) TelegramChange(c *gin.Context) {
	h.flow.ChangeHandle()
	c.JSON(http.StatusOK, gin.H{"step": int(h.flow.Step())})
}

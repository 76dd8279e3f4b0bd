package repository

import (
	"encoding/json"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/store"
	"github.com/rs/zerolog"
)

// sessionRepo is the concrete implementation of SessionRepository
type sessionRepo struct {
	st  store.Store
	log zerolog.Logger
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(st store.Store, log zerolog.Logger) SessionRepository {
	return &sessionRepo{st: st, log: log.With().Str("repo", "session").Logger()}
}

// Current returns the logged-in user snapshot, nil when no session exists.
// The snapshot can be stale relative to the user collection; callers that
// need the live record must re-fetch by id.
func (r *sessionRepo) Current() *models.User {
	data, ok := r.st.Read(store.SessionKey)
	if !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		r.log.Warn().Err(err).Msg("Session document corrupt, treating as logged out")
		return nil
	}
	return &user
}

func (r *sessionRepo) SetCurrent(user models.User) error {
	return writeJSON(r.st, store.SessionKey, user)
}

func (r *sessionRepo) Clear() error {
	return r.st.Remove(store.SessionKey)
}

package repository

import (
	"encoding/json"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/store"
	"github.com/rs/zerolog"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	st      store.Store
	session SessionRepository
	log     zerolog.Logger
}

// NewUserRepo creates a new user repository. The session repository is
// needed to keep the session snapshot in sync with self-edits.
func NewUserRepo(st store.Store, session SessionRepository, log zerolog.Logger) UserRepository {
	return &userRepo{st: st, session: session, log: log.With().Str("repo", "users").Logger()}
}

// ListAll returns the whole user collection, falling back to seed data when
// the document is absent or corrupt.
func (r *userRepo) ListAll() []models.User {
	data, ok := r.st.Read(store.UsersKey)
	if !ok {
		return seedUsers()
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		r.log.Warn().Err(err).Msg("Users document corrupt, serving seed data")
		return seedUsers()
	}
	return users
}

// GetByID retrieves a user by id, nil if no match
func (r *userRepo) GetByID(id string) *models.User {
	for _, u := range r.ListAll() {
		if u.ID == id {
			user := u
			return &user
		}
	}
	return nil
}

// GetByHandle retrieves the first user with the given telegram handle.
// Handles are not guaranteed unique; first match wins.
func (r *userRepo) GetByHandle(handle string) *models.User {
	for _, u := range r.ListAll() {
		if u.TelegramHandle == handle {
			user := u
			return &user
		}
	}
	return nil
}

// GetByEmail retrieves a user by email, nil if no match
func (r *userRepo) GetByEmail(email string) *models.User {
	for _, u := range r.ListAll() {
		if u.Email == email {
			user := u
			return &user
		}
	}
	return nil
}

// Save upserts the user and refreshes the session snapshot when the saved
// user is the one currently logged in.
func (r *userRepo) Save(user models.User) error {
	users := r.ListAll()
	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	if err := writeJSON(r.st, store.UsersKey, users); err != nil {
		return err
	}

	if current := r.session.Current(); current != nil && current.ID == user.ID {
		return r.session.SetCurrent(user)
	}
	return nil
}

package repository

import (
	"errors"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/store"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by AddComment when the target article is absent.
// Plain lookups never return it: a miss is a nil result, not an error.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user data operations.
//
// Reads cannot fail: a missing or corrupt users document decodes to the
// built-in seed data. Lookups that find nothing return nil.
type UserRepository interface {
	ListAll() []models.User
	GetByID(id string) *models.User
	GetByHandle(handle string) *models.User
	GetByEmail(email string) *models.User
	// Save upserts: an existing id is replaced in place, a new user is
	// appended at the tail. When the saved id matches the current
	// session, the session snapshot is rewritten as well.
	Save(user models.User) error
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// ListAll returns articles in stored order, newest first.
	ListAll() []models.Article
	GetByID(id string) *models.Article
	// Save upserts: an existing id is replaced in place, a new article
	// is inserted at the head so the feed stays newest-first.
	Save(article models.Article) error
	DeleteByID(id string) error
	// AddComment appends the comment to the article's comment sequence
	// and recomputes commentsCount. It returns the updated article, or
	// ErrNotFound without writing anything when the article is absent.
	AddComment(articleID string, comment models.Comment) (*models.Article, error)
}

// SessionRepository tracks the current logged-in user as a denormalized
// snapshot of a User record, persisted so it survives restarts.
type SessionRepository interface {
	Current() *models.User
	SetCurrent(user models.User) error
	Clear() error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Users    UserRepository
	Articles ArticleRepository
	Session  SessionRepository

	st store.Store
}

// New creates all repositories over the given document store
func New(st store.Store, log zerolog.Logger) *Repositories {
	session := NewSessionRepo(st, log)
	return &Repositories{
		Users:    NewUserRepo(st, session, log),
		Articles: NewArticleRepo(st, log),
		Session:  session,
		st:       st,
	}
}

// Init writes the seed documents for any key that is still absent, so a
// fresh deployment starts with the founding profile and article.
func (r *Repositories) Init() error {
	if _, ok := r.st.Read(store.UsersKey); !ok {
		if err := writeJSON(r.st, store.UsersKey, seedUsers()); err != nil {
			return err
		}
	}
	if _, ok := r.st.Read(store.ArticlesKey); !ok {
		if err := writeJSON(r.st, store.ArticlesKey, seedArticles()); err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"encoding/json"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/store"
	"github.com/rs/zerolog"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	st  store.Store
	log zerolog.Logger
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(st store.Store, log zerolog.Logger) ArticleRepository {
	return &articleRepo{st: st, log: log.With().Str("repo", "articles").Logger()}
}

// ListAll returns the whole article collection in stored order (newest
// first), falling back to seed data when the document is absent or corrupt.
func (r *articleRepo) ListAll() []models.Article {
	data, ok := r.st.Read(store.ArticlesKey)
	if !ok {
		return seedArticles()
	}
	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		r.log.Warn().Err(err).Msg("Articles document corrupt, serving seed data")
		return seedArticles()
	}
	return articles
}

// GetByID retrieves an article by id, nil if no match
func (r *articleRepo) GetByID(id string) *models.Article {
	for _, a := range r.ListAll() {
		if a.ID == id {
			article := a
			return &article
		}
	}
	return nil
}

// Save upserts the article. A replaced article keeps its position; a new
// one is inserted at the head so the feed stays newest-first.
func (r *articleRepo) Save(article models.Article) error {
	articles := r.ListAll()
	replaced := false
	for i := range articles {
		if articles[i].ID == article.ID {
			articles[i] = article
			replaced = true
			break
		}
	}
	if !replaced {
		articles = append([]models.Article{article}, articles...)
	}
	return writeJSON(r.st, store.ArticlesKey, articles)
}

// DeleteByID hard-deletes the article, leaving all others and their
// relative order unchanged.
func (r *articleRepo) DeleteByID(id string) error {
	articles := r.ListAll()
	kept := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	return writeJSON(r.st, store.ArticlesKey, kept)
}

// AddComment appends the comment to the article's comment sequence,
// recomputes commentsCount and persists the collection. This is the only
// partial update of an entity; everything else is a full replace.
func (r *articleRepo) AddComment(articleID string, comment models.Comment) (*models.Article, error) {
	articles := r.ListAll()
	for i := range articles {
		if articles[i].ID != articleID {
			continue
		}
		articles[i].Comments = append(articles[i].Comments, comment)
		articles[i].CommentsCount = len(articles[i].Comments)
		if err := writeJSON(r.st, store.ArticlesKey, articles); err != nil {
			return nil, err
		}
		updated := articles[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

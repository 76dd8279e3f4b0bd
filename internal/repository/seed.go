package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/new-north/platform-api/internal/models"
	"github.com/new-north/platform-api/internal/store"
)

// Seed fixtures. These are what readers see when a document is absent or
// corrupt, and what Init persists on first run. Ids are the legacy short
// forms, not generated.

func seedUsers() []models.User {
	return []models.User{
		{
			ID:             "u1",
			TelegramHandle: "admin_north",
			FullName:       "Ayaan North",
			AvatarURL:      "https://picsum.photos/200/200?random=1",
			BannerURL:      "https://picsum.photos/1200/400?random=1",
			Bio:            "Founder of New-North. Love coding and hiking in Lena Pillars.",
			Tags:           []string{"coding", "startup", "yakutia"},
			JoinedAt:       time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func seedArticles() []models.Article {
	now := time.Now().UTC().Format(time.RFC3339)
	return []models.Article{
		{
			ID:       "a1",
			AuthorID: "u1",
			Title:    "Why I started New-North",
			Preview:  "Tired of the noise on mainstream social media, I wanted to build a sanctuary...",
			Content:  "Legacy content...",
			Blocks: []models.ArticleBlock{
				{ID: "b1", Type: models.BlockHeading1, Content: "The Beginning"},
				{ID: "b2", Type: models.BlockParagraph, Content: "Twitter is too noisy. Instagram is too fake. We needed a place for **deep thoughts** and real connections."},
				{ID: "b3", Type: models.BlockHeading2, Content: "The Mission"},
				{ID: "b4", Type: models.BlockParagraph, Content: "To inspire the youth of Yakutia. To share knowledge. To meet."},
				{ID: "b5", Type: models.BlockImage, Content: "https://picsum.photos/800/400?random=2"},
				{ID: "b6", Type: models.BlockParagraph, Content: "This platform is built for you."},
			},
			Tags:          []string{"intro", "philosophy"},
			CreatedAt:     now,
			Views:         120,
			CommentsCount: 1,
			Comments: []models.Comment{
				{
					ID:        "c1",
					AuthorID:  "u1",
					Text:      "Welcome to the platform!",
					CreatedAt: now,
				},
			},
		},
	}
}

// writeJSON marshals a collection and flushes it to the store
func writeJSON(st store.Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", key, err)
	}
	if err := st.Write(key, data); err != nil {
		return fmt.Errorf("failed to persist %s document: %w", key, err)
	}
	return nil
}

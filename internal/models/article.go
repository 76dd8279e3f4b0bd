package models

import "strings"

// BlockType identifies how a block's content is interpreted.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading1  BlockType = "h1"
	BlockHeading2  BlockType = "h2"
	BlockImage     BlockType = "image"
)

// ValidBlockTypes defines the allowed block types
var ValidBlockTypes = map[BlockType]bool{
	BlockParagraph: true,
	BlockHeading1:  true,
	BlockHeading2:  true,
	BlockImage:     true,
}

// ArticleBlock is one content unit within an article. Content holds free
// text for paragraph/heading blocks and a URL or embedded image payload for
// image blocks. Display order equals sequence order.
type ArticleBlock struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

// Article represents a published post.
type Article struct {
	ID       string `json:"id"`
	AuthorID string `json:"authorId"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	// Content is the legacy full-text body, kept for articles created
	// before the block model existed. When Blocks is non-empty it
	// supersedes Content for rendering.
	Content       string         `json:"content"`
	Blocks        []ArticleBlock `json:"blocks,omitempty"`
	Tags          []string       `json:"tags"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
	Views         int            `json:"views"`
	CommentsCount int            `json:"commentsCount"`
	Comments      []Comment      `json:"comments,omitempty"`
}

// DisplayBlocks returns the blocks to render. Legacy articles without
// blocks are presented as a single paragraph wrapping Content.
func (a *Article) DisplayBlocks() []ArticleBlock {
	if len(a.Blocks) > 0 {
		return a.Blocks
	}
	return []ArticleBlock{{ID: "legacy-1", Type: BlockParagraph, Content: a.Content}}
}

// PreviewLength is the maximum number of runes in a derived preview.
const PreviewLength = 150

// PreviewText derives a feed summary from the paragraph blocks of a draft.
func PreviewText(blocks []ArticleBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == BlockParagraph && b.Content != "" {
			parts = append(parts, b.Content)
		}
	}
	joined := []rune(strings.Join(parts, " "))
	if len(joined) > PreviewLength {
		joined = joined[:PreviewLength]
	}
	return string(joined) + "..."
}

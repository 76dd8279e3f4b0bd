package models

// Comment represents a reader comment on an article. Comments are append
// only: they are never edited or deleted once posted.
type Comment struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

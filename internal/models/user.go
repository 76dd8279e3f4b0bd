package models

// User represents a member profile in the people directory.
//
// Timestamps are stored as RFC 3339 strings so the persisted documents stay
// byte-compatible with the legacy client data.
type User struct {
	ID             string   `json:"id"`
	TelegramHandle string   `json:"telegramHandle"`
	Email          string   `json:"email,omitempty"`
	Password       string   `json:"password,omitempty"`
	FullName       string   `json:"fullName"`
	AvatarURL      string   `json:"avatarUrl"`
	BannerURL      string   `json:"bannerUrl"`
	Bio            string   `json:"bio"`
	Tags           []string `json:"tags"`
	// JoinedAt is set once at registration and never changes afterwards.
	JoinedAt string `json:"joinedAt"`
}

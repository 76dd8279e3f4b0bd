package store

// Document keys. Each key holds one whole JSON document; there is no
// per-entity keying and no versioning field.
const (
	UsersKey    = "new_north_users"
	ArticlesKey = "new_north_articles"
	SessionKey  = "new_north_session"
)

// Store reads and writes whole JSON documents under fixed keys.
//
// Read fails closed: a missing key, an unavailable backend, or any backend
// error all yield absent, and callers fall back to built-in seed data. Write
// errors propagate, since silently dropping the only copy of the data is
// worse than surfacing the failure.
type Store interface {
	Read(key string) ([]byte, bool)
	Write(key string, data []byte) error
	Remove(key string) error
}

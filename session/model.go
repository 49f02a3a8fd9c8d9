package session

import "time"

// CurrentSchemaVersion is the record layout written by [Encode].
const CurrentSchemaVersion uint8 = 1

// Session is the record stored under <prefix>session:<token>.
//
// UserID and Username are a snapshot taken at creation and are never
// refreshed. Token is not part of the encoded payload; it is the key.
type Session struct {
	SchemaVersion uint8
	Token         string
	UserID        string
	Username      string
	CreatedAt     int64
}

// Issued is returned by [Store.Create].
type Issued struct {
	Token string
	TTL   time.Duration
}

package domain

import "time"

// Session maps an opaque token to an authenticated user for a bounded time
// window. Sessions live in process memory only; a restart invalidates all
// of them.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// SessionRepository defines operations on the session store. Get must treat
// expired sessions as absent and may evict them at that point.
type SessionRepository interface {
	Put(session Session)
	Get(token string) (Session, bool)
	Delete(token string)
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flash message kinds stored on a session.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Session is a server-side session record. User is zero for anonymous
// sessions (a session exists before login so flash messages work on the
// login and register pages). ExpiresAt is the absolute 7-day deadline set
// at creation; Deadline is the rolling 7-hour one, pushed forward on
// activity. TouchedAt throttles how often the push is persisted.
type Session struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user,omitempty" json:"userId"`
	Flash     map[string][]string `bson:"flash,omitempty" json:"-"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	ExpiresAt time.Time           `bson:"expires_at" json:"expiresAt"`
	Deadline  time.Time           `bson:"deadline" json:"deadline"`
	TouchedAt time.Time           `bson:"touched_at" json:"-"`
}

// Expired reports whether the session is past either its absolute or its
// rolling deadline.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt) || now.After(s.Deadline)
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return !s.User.IsZero()
}

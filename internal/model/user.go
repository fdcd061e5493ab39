package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered identity. PasswordHash is opaque to everything but
// the auth service and never leaves the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
}

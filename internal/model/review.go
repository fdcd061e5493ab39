package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's review of a listing. Listing is the back-reference to
// the listing that also carries this review's id in its Reviews sequence;
// the two are always added and removed together.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Listing   primitive.ObjectID `bson:"listing" json:"listingId"`
	Author    primitive.ObjectID `bson:"author" json:"authorId"`
	Body      string             `bson:"body" json:"body"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

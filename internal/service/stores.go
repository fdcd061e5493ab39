package service

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/geocode"
	"github.com/shakti20/Camper/internal/model"
)

// ErrNotFound is returned when an addressed resource does not exist.
// Handlers decide whether that is a recoverable redirect or a 404.
var ErrNotFound = errors.New("service: not found")

// ListingStore is the listing persistence the services need.
type ListingStore interface {
	Insert(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	FindAll(ctx context.Context) ([]model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PullImages(ctx context.Context, id primitive.ObjectID, filenames []string) error
	PushReview(ctx context.Context, id, reviewID primitive.ObjectID) error
	PullReview(ctx context.Context, id, reviewID primitive.ObjectID) error
}

// ReviewStore is the review persistence the services need.
type ReviewStore interface {
	Insert(ctx context.Context, rev *model.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	FindByListing(ctx context.Context, listingID primitive.ObjectID) ([]model.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByListing(ctx context.Context, listingID primitive.ObjectID) (int64, error)
}

// ImageStore is the external image hosting service.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, originalName string) (url, filename string, err error)
	Delete(ctx context.Context, filename string) error
}

// Geocoder resolves a location string to its best-match point.
type Geocoder interface {
	Forward(ctx context.Context, location string) (geocode.Point, error)
}

// UserStore is the user lookup the services need.
type UserStore interface {
	Insert(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shakti20/Camper/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("repository: not found")

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

// Insert stores a new listing and fills in its generated id.
func (r *ListingRepository) Insert(ctx context.Context, l *model.Listing) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("ListingRepository.Insert: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	var l model.Listing
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.FindByID: %w", err)
	}
	return &l, nil
}

// FindAll returns every listing, newest first.
func (r *ListingRepository) FindAll(ctx context.Context) ([]model.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.FindAll: %w", err)
	}
	defer cur.Close(ctx)

	var list []model.Listing
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindAll: decode: %w", err)
	}
	return list, nil
}

// Update replaces the mutable fields of an existing listing. The author
// field is deliberately not part of the update.
func (r *ListingRepository) Update(ctx context.Context, l *model.Listing) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": l.ID}, bson.M{"$set": bson.M{
		"title":       l.Title,
		"description": l.Description,
		"location":    l.Location,
		"price":       l.Price,
		"images":      l.Images,
	}})
	if err != nil {
		return fmt.Errorf("ListingRepository.Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullImages removes the image entries with the given filenames from the
// listing's image sequence.
func (r *ListingRepository) PullImages(ctx context.Context, id primitive.ObjectID, filenames []string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"images": bson.M{"filename": bson.M{"$in": filenames}}},
	})
	if err != nil {
		return fmt.Errorf("ListingRepository.PullImages: %w", err)
	}
	return nil
}

// PushReview appends a review id to the listing's review sequence.
func (r *ListingRepository) PushReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"reviews": reviewID},
	})
	if err != nil {
		return fmt.Errorf("ListingRepository.PushReview: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullReview removes a review id from the listing's review sequence. A
// pull of an id the sequence no longer contains is a no-op, not an error.
func (r *ListingRepository) PullReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"reviews": reviewID},
	})
	if err != nil {
		return fmt.Errorf("ListingRepository.PullReview: %w", err)
	}
	return nil
}

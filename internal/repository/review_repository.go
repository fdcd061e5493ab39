package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shakti20/Camper/internal/model"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

// Insert saves a new review, filling in its generated id and created_at.
func (r *ReviewRepository) Insert(ctx context.Context, rev *model.Review) error {
	if rev.ID.IsZero() {
		rev.ID = primitive.NewObjectID()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now()
	}
	if _, err := r.col.InsertOne(ctx, rev); err != nil {
		return fmt.Errorf("ReviewRepository.Insert: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	var rev model.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByID: %w", err)
	}
	return &rev, nil
}

// FindByListing returns all reviews for a listing, newest first.
func (r *ReviewRepository) FindByListing(ctx context.Context, listingID primitive.ObjectID) ([]model.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"listing": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByListing: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []model.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByListing: decode: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("ReviewRepository.Delete: %w", err)
	}
	return nil
}

// DeleteByListing removes every review whose back-reference points at the
// given listing. Used by the listing delete cascade.
func (r *ReviewRepository) DeleteByListing(ctx context.Context, listingID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"listing": listingID})
	if err != nil {
		return 0, fmt.Errorf("ReviewRepository.DeleteByListing: %w", err)
	}
	return res.DeletedCount, nil
}

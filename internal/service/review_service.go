package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
)

// ErrNotAllowed is returned when the current user may not delete a review:
// only the review's author or the listing's owner can.
var ErrNotAllowed = errors.New("service: not allowed")

// AuthoredReview pairs a review with its resolved author for rendering.
type AuthoredReview struct {
	Review model.Review
	Author model.User
}

// ReviewService keeps a listing's review sequence and the review records
// mutually consistent.
type ReviewService struct {
	reviews  ReviewStore
	listings ListingStore
	users    UserStore
}

func NewReviewService(reviews ReviewStore, listings ListingStore, users UserStore) *ReviewService {
	return &ReviewService{reviews: reviews, listings: listings, users: users}
}

// Add creates a review authored by author and appends its id to the
// listing's review sequence.
func (s *ReviewService) Add(ctx context.Context, listingID, author primitive.ObjectID, body string, rating int) (*model.Review, error) {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ReviewService.Add: %w", err)
	}

	rev := &model.Review{
		Listing:   listingID,
		Author:    author,
		Body:      body,
		Rating:    rating,
		CreatedAt: time.Now(),
	}
	if err := s.reviews.Insert(ctx, rev); err != nil {
		return nil, fmt.Errorf("ReviewService.Add: %w", err)
	}
	if err := s.listings.PushReview(ctx, listingID, rev.ID); err != nil {
		return nil, fmt.Errorf("ReviewService.Add: attach to listing: %w", err)
	}
	return rev, nil
}

// Remove detaches the review id from the listing and deletes the review
// record. The detach is a no-op when the sequence no longer holds the id,
// so a replayed removal converges instead of failing. current must be the
// review's author or the listing's owner.
func (s *ReviewService) Remove(ctx context.Context, listingID, reviewID, current primitive.ObjectID) error {
	listing, err := s.listings.FindByID(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ReviewService.Remove: %w", err)
	}

	rev, err := s.reviews.FindByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		// The record is already gone; detach the id if it lingers.
		if err := s.listings.PullReview(ctx, listingID, reviewID); err != nil {
			return fmt.Errorf("ReviewService.Remove: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("ReviewService.Remove: %w", err)
	}

	if current != rev.Author && current != listing.Author {
		return ErrNotAllowed
	}

	if err := s.listings.PullReview(ctx, listingID, reviewID); err != nil {
		return fmt.Errorf("ReviewService.Remove: detach: %w", err)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("ReviewService.Remove: delete: %w", err)
	}
	return nil
}

// ForListing returns the listing's reviews with their authors resolved,
// newest first.
func (s *ReviewService) ForListing(ctx context.Context, listingID primitive.ObjectID) ([]AuthoredReview, error) {
	reviews, err := s.reviews.FindByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ForListing: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.Author)
	}
	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.ForListing: %w", err)
	}

	out := make([]AuthoredReview, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, AuthoredReview{Review: r, Author: authors[r.Author]})
	}
	return out, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shakti20/Camper/internal/geocode"
	"github.com/shakti20/Camper/internal/httperr"
	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
)

// Upload is one submitted file, decoupled from the transport's multipart
// types.
type Upload struct {
	Name    string
	Content io.Reader
}

// ListingInput is the validated field set for creating or updating a
// listing.
type ListingInput struct {
	Title       string
	Location    string
	Description string
	Price       float64
}

// ListingService owns the listing lifecycle: creation with geocoding and
// image uploads, updates with image append/remove, and deletion with its
// cascades.
type ListingService struct {
	listings ListingStore
	reviews  ReviewStore
	images   ImageStore
	geocoder Geocoder
}

func NewListingService(listings ListingStore, reviews ReviewStore, images ImageStore, geocoder Geocoder) *ListingService {
	return &ListingService{listings: listings, reviews: reviews, images: images, geocoder: geocoder}
}

// Create geocodes the location, uploads the files, and persists the new
// listing owned by author. Geocoding runs first: if it fails, nothing has
// been uploaded or written yet, so there is nothing to orphan.
func (s *ListingService) Create(ctx context.Context, author primitive.ObjectID, in ListingInput, uploads []Upload) (*model.Listing, error) {
	point, err := s.geocoder.Forward(ctx, in.Location)
	if errors.Is(err, geocode.ErrNoMatch) {
		return nil, httperr.BadRequest(fmt.Sprintf("Location %q could not be found", in.Location))
	}
	if err != nil {
		return nil, httperr.Upstream("Could not geocode the location", err)
	}

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	listing := &model.Listing{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Geometry: model.Geometry{
			Type:        "Point",
			Coordinates: []float64{point.Lng, point.Lat},
		},
		Price:   in.Price,
		Author:  author,
		Images:  images,
		Reviews: []primitive.ObjectID{},
	}
	if err := s.listings.Insert(ctx, listing); err != nil {
		return nil, fmt.Errorf("ListingService.Create: %w", err)
	}
	return listing, nil
}

// Update applies the validated field changes, appends any newly uploaded
// images, and removes the requested ones. The location text may change but
// the stored point does not; only creation geocodes. Removal is one store
// call per filename, best-effort: a failed deletion is logged and the rest
// proceed, and the image entries are pulled from the listing afterwards.
func (s *ListingService) Update(ctx context.Context, id primitive.ObjectID, in ListingInput, uploads []Upload, deleteFilenames []string) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ListingService.Update: %w", err)
	}

	newImages, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Location = in.Location
	listing.Price = in.Price
	listing.Images = append(listing.Images, newImages...)

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("ListingService.Update: %w", err)
	}

	if len(deleteFilenames) > 0 {
		s.deleteRemote(ctx, deleteFilenames)
		if err := s.listings.PullImages(ctx, id, deleteFilenames); err != nil {
			return nil, fmt.Errorf("ListingService.Update: %w", err)
		}
		kept := listing.Images[:0]
		drop := make(map[string]bool, len(deleteFilenames))
		for _, f := range deleteFilenames {
			drop[f] = true
		}
		for _, img := range listing.Images {
			if !drop[img.Filename] {
				kept = append(kept, img)
			}
		}
		listing.Images = kept
	}

	return listing, nil
}

// Delete removes the listing, cascade-deletes its reviews, and issues a
// best-effort delete for each of its stored image files.
func (s *ListingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	listing, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ListingService.Delete: %w", err)
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("ListingService.Delete: %w", err)
	}
	if _, err := s.reviews.DeleteByListing(ctx, id); err != nil {
		return fmt.Errorf("ListingService.Delete: cascade reviews: %w", err)
	}

	filenames := make([]string, 0, len(listing.Images))
	for _, img := range listing.Images {
		filenames = append(filenames, img.Filename)
	}
	s.deleteRemote(ctx, filenames)
	return nil
}

// Get loads a listing by id.
func (s *ListingService) Get(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ListingService.Get: %w", err)
	}
	return listing, nil
}

// List returns all listings.
func (s *ListingService) List(ctx context.Context) ([]model.Listing, error) {
	listings, err := s.listings.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListingService.List: %w", err)
	}
	return listings, nil
}

func (s *ListingService) uploadAll(ctx context.Context, uploads []Upload) ([]model.Image, error) {
	images := make([]model.Image, 0, len(uploads))
	for _, up := range uploads {
		url, filename, err := s.images.Upload(ctx, up.Content, up.Name)
		if err != nil {
			return nil, httperr.Upstream("Could not store an uploaded image", err)
		}
		images = append(images, model.Image{URL: url, Filename: filename})
	}
	return images, nil
}

func (s *ListingService) deleteRemote(ctx context.Context, filenames []string) {
	for _, filename := range filenames {
		if err := s.images.Delete(ctx, filename); err != nil {
			slog.Warn("image delete failed", "filename", filename, "error", err)
		}
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// PhotoRepository is the image store. Files live in a GridFS bucket; the
// store-assigned filename is the sole deletion key and is unique because
// it is derived from a fresh UUID.
type PhotoRepository struct {
	DB *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{DB: client.Database(dbName)}
}

// Upload stores a file and returns its serving URL and store filename.
func (r *PhotoRepository) Upload(ctx context.Context, file io.Reader, originalName string) (string, string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	filename := uuid.NewString() + path.Ext(originalName)

	stream, err := bucket.OpenUploadStream(filename)
	if err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}
	if _, err := io.Copy(stream, file); err != nil {
		stream.Close()
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	return "/images/" + filename, filename, nil
}

// Open reads a stored file back by its filename.
func (r *PhotoRepository) Open(ctx context.Context, filename string) ([]byte, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return nil, fmt.Errorf("PhotoRepository.Open: %w", err)
	}

	stream, err := bucket.OpenDownloadStreamByName(filename)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PhotoRepository.Open: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("PhotoRepository.Open: %w", err)
	}
	return data, nil
}

// Delete removes a stored file by filename. Deleting a filename that is
// already absent is not an error.
func (r *PhotoRepository) Delete(ctx context.Context, filename string) error {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return fmt.Errorf("PhotoRepository.Delete: %w", err)
	}

	var file struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = bucket.GetFilesCollection().FindOne(ctx, bson.M{"filename": filename}).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("PhotoRepository.Delete: %w", err)
	}

	if err := bucket.Delete(file.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("PhotoRepository.Delete: %w", err)
	}
	return nil
}

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

// SessionRepository persists session records in their own collection,
// alongside the application data.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection("sessions")}
}

func (r *SessionRepository) Insert(ctx context.Context, s *model.Session) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("SessionRepository.Insert: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error) {
	var s model.Session
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("SessionRepository.FindByID: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("SessionRepository.Delete: %w", err)
	}
	return nil
}

// Touch persists a refreshed rolling deadline.
func (r *SessionRepository) Touch(ctx context.Context, id primitive.ObjectID, deadline, touchedAt time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"deadline":   deadline,
		"touched_at": touchedAt,
	}})
	if err != nil {
		return fmt.Errorf("SessionRepository.Touch: %w", err)
	}
	return nil
}

// PushFlash appends a one-shot notification under the given kind.
func (r *SessionRepository) PushFlash(ctx context.Context, id primitive.ObjectID, kind, message string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"flash." + kind: message},
	})
	if err != nil {
		return fmt.Errorf("SessionRepository.PushFlash: %w", err)
	}
	return nil
}

// PopFlash atomically reads and clears the session's flash messages, so a
// notification renders exactly once.
func (r *SessionRepository) PopFlash(ctx context.Context, id primitive.ObjectID) (map[string][]string, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var s model.Session
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"flash": ""},
	}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("SessionRepository.PopFlash: %w", err)
	}
	if s.Flash == nil {
		return map[string][]string{}, nil
	}
	return s.Flash, nil
}

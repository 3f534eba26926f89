package historystore

import (
	"context"
	"errors"
	"time"

	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBadChangeType = errors.New(`change type must be "created"|"updated"|"approved"|"archived"|"restored"`)

// Store manages the append-only document_history collection. Entries
// are full snapshots of the document at the moment of change, so a
// version can be inspected after later edits.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("document_history")}
}

// Append records a snapshot. The entry's ID and CreatedAt are set here.
func (s *Store) Append(ctx context.Context, e models.HistoryEntry) (models.HistoryEntry, error) {
	if !models.IsValidChangeType(e.ChangeType) {
		return models.HistoryEntry{}, errBadChangeType
	}
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.HistoryEntry{}, err
	}
	return e, nil
}

// ListByDocument returns a document's history, newest first.
func (s *Store) ListByDocument(ctx context.Context, documentID primitive.ObjectID) ([]models.HistoryEntry, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"document_id": documentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.HistoryEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByDocument removes a document's history. Called when the
// document itself is deleted.
func (s *Store) DeleteByDocument(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByChangedBy removes every entry authored by the given user.
// Part of user deletion cleanup.
func (s *Store) DeleteByChangedBy(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"changed_by": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

package rolestore

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

var errBadRole = errors.New(`role must be "Analista"|"Coordenador"|"Gerente"`)

// Store manages role assignments. A unique index on user_id guarantees
// at most one row per user; Upsert replaces any previous assignment.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_roles")}
}

// Upsert assigns a role to the user, replacing any previous one.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, role string, assignedBy *primitive.ObjectID) (models.RoleAssignment, error) {
	if !models.IsValidRole(role) {
		return models.RoleAssignment{}, errBadRole
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"role":        role,
			"assigned_by": assignedBy,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var ra models.RoleAssignment
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&ra); err != nil {
		return models.RoleAssignment{}, err
	}
	return ra, nil
}

// GetByUserID loads the user's role assignment. Returns
// mongo.ErrNoDocuments when the user has none.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RoleAssignment, error) {
	var ra models.RoleAssignment
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&ra); err != nil {
		return nil, err
	}
	return &ra, nil
}

// RoleOf resolves a user ID in hex form to their role name. A user
// with no assignment (or a malformed ID) yields "" with no error, so
// authentication degrades to a capability-free session instead of
// failing.
func (s *Store) RoleOf(ctx context.Context, userID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", nil
	}
	ra, err := s.GetByUserID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return ra.Role, nil
}

// List returns every role assignment, newest first.
func (s *Store) List(ctx context.Context) ([]models.RoleAssignment, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RoleAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByUserID removes the user's role assignment. Returns the number
// of rows deleted (0 or 1).
func (s *Store) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ClearAssignedBy nulls out assigned_by wherever it references the
// given user. Called during user deletion so remaining assignments do
// not point at a vanished account.
func (s *Store) ClearAssignedBy(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"assigned_by": userID},
		bson.M{"$set": bson.M{"assigned_by": nil, "updated_at": time.Now()}})
	return err
}

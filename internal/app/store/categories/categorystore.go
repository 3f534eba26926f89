package categorystore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/matheusmeigre/docportal/internal/app/system/normalize"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateName is returned when a category with the same folded
// name already exists.
var ErrDuplicateName = errors.New("a category with this name already exists")

// Store manages the categories collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("categories")}
}

// Create inserts a new category.
func (s *Store) Create(ctx context.Context, c models.Category) (models.Category, error) {
	now := time.Now()
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, ErrDuplicateName
		}
		return models.Category{}, err
	}
	return c, nil
}

// GetByID loads a category by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NamesByIDs resolves category ids to display names in one query.
// Unknown ids are simply absent from the map.
func (s *Store) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Category
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, c := range rows {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Update holds the editable category fields.
type Update struct {
	Name        string
	Description string
	ParentID    *primitive.ObjectID
	Icon        string
}

// UpdateCategory rewrites a category's fields. Returns the updated row.
func (s *Store) UpdateCategory(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Category, error) {
	name := normalize.Name(upd.Name)
	set := bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": upd.Description,
		"parent_id":   upd.ParentID,
		"icon":        upd.Icon,
		"updated_at":  time.Now(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Category
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a category. Returns the number deleted (0 or 1).
// Documents pointing at it are detached by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

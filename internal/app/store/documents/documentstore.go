package documentstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBadStatus = errors.New(`status must be "Rascunho"|"Aguardando Aprovação"|"Aprovado"|"Arquivado"`)

// Store manages the documents collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// ListParams narrows and pages a document listing.
//
// When ViewerSeesAll is false the listing is restricted to what the
// viewer may see: approved documents plus their own in any status.
type ListParams struct {
	Query  string // title substring, case and diacritic insensitive
	Status string // exact status, "" matches all

	ViewerID      primitive.ObjectID
	ViewerSeesAll bool

	Skip  int64
	Limit int64
}

func (p ListParams) filter() bson.M {
	filter := bson.M{}
	if q := text.Fold(p.Query); q != "" {
		filter["title_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}
	if p.Status != "" {
		filter["status"] = p.Status
	}
	if !p.ViewerSeesAll {
		filter["$or"] = bson.A{
			bson.M{"status": models.StatusAprovado},
			bson.M{"author_id": p.ViewerID},
		}
	}
	return filter
}

// List returns one page of documents, newest first, plus the total
// match count for the same filter.
func (s *Store) List(ctx context.Context, p ListParams) ([]models.Document, int64, error) {
	filter := p.filter()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(p.Skip)
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// GetByID loads a document by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var d models.Document
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document at version 1.
func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	if !models.IsValidStatus(d.Status) {
		return models.Document{}, errBadStatus
	}

	now := time.Now()
	d.ID = primitive.NewObjectID()
	d.TitleCI = text.Fold(d.Title)
	d.Version = 1
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

// ContentUpdate holds the editable fields of a document.
type ContentUpdate struct {
	Title      string
	Content    string
	CategoryID *primitive.ObjectID
}

// UpdateContent rewrites the document's editable fields and bumps the
// version. Returns the updated document.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, upd ContentUpdate) (*models.Document, error) {
	update := bson.M{
		"$set": bson.M{
			"title":       upd.Title,
			"title_ci":    text.Fold(upd.Title),
			"content":     upd.Content,
			"category_id": upd.CategoryID,
			"updated_at":  time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

// SetStatus moves the document to a new status and bumps the version.
// Used for submit, archive and restore; approval goes through Approve
// so the approver stamp stays consistent.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Document, error) {
	if !models.IsValidStatus(status) {
		return nil, errBadStatus
	}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

// Approve moves the document to Aprovado and stamps the approver.
func (s *Store) Approve(ctx context.Context, id, approverID primitive.ObjectID) (*models.Document, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":      models.StatusAprovado,
			"approved_by": approverID,
			"approved_at": now,
			"updated_at":  now,
		},
		"$inc": bson.M{"version": 1},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *Store) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.Document
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a document. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ClearApprovedBy nulls out the approver stamp wherever it references
// the given user. Called during user deletion; the approved status
// itself is untouched.
func (s *Store) ClearApprovedBy(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"approved_by": userID},
		bson.M{"$set": bson.M{"approved_by": nil, "updated_at": time.Now()}})
	return err
}

// ClearCategory detaches documents from a deleted category.
func (s *Store) ClearCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"category_id": categoryID},
		bson.M{"$set": bson.M{"category_id": nil, "updated_at": time.Now()}})
	return err
}

// StatusCounts is the per-status breakdown returned by Stats.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Rascunho   int64 `json:"rascunho"`
	Aguardando int64 `json:"aguardando_aprovacao"`
	Aprovado   int64 `json:"aprovado"`
	Arquivado  int64 `json:"arquivado"`
}

// Stats counts documents per status with a single aggregation.
func (s *Store) Stats(ctx context.Context) (StatusCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return StatusCounts{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return StatusCounts{}, err
	}

	var out StatusCounts
	for _, r := range rows {
		out.Total += r.Count
		switch r.Status {
		case models.StatusRascunho:
			out.Rascunho = r.Count
		case models.StatusAguardando:
			out.Aguardando = r.Count
		case models.StatusAprovado:
			out.Aprovado = r.Count
		case models.StatusArquivado:
			out.Arquivado = r.Count
		}
	}
	return out, nil
}

// CountByAuthorStatus counts one author's documents in one status.
func (s *Store) CountByAuthorStatus(ctx context.Context, authorID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"author_id": authorID, "status": status})
}

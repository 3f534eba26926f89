package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount inserts a confirmed account and returns it. The
// password is "senha-teste" unless a different one matters to the test.
func (f *Fixtures) CreateAccount(ctx context.Context, email string) models.Account {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha-teste"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("fixture: hash password: %v", err)
	}

	now := time.Now().UTC()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Confirmed:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("accounts").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("fixture: create account: %v", err)
	}
	return a
}

// AssignRole inserts a role assignment row for the user.
func (f *Fixtures) AssignRole(ctx context.Context, userID primitive.ObjectID, role string) models.RoleAssignment {
	f.t.Helper()

	now := time.Now().UTC()
	ra := models.RoleAssignment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("user_roles").InsertOne(ctx, ra); err != nil {
		f.t.Fatalf("fixture: assign role: %v", err)
	}
	return ra
}

// CreateDocument inserts a document with the given title, author and
// status. Content defaults to a short placeholder.
func (f *Fixtures) CreateDocument(ctx context.Context, title string, authorID primitive.ObjectID, status string) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Document{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Content:   "conteúdo de teste",
		Status:    status,
		AuthorID:  authorID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("documents").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("fixture: create document: %v", err)
	}
	return d
}

// CreateCategory inserts a category with the given name.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("categories").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("fixture: create category: %v", err)
	}
	return c
}

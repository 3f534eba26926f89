package accountstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/matheusmeigre/docportal/internal/app/system/normalize"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when creating or renaming an account
	// to an email that already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned on a failed password check. The
	// same error covers "no such account" so callers cannot probe for
	// registered emails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTokenInvalid is returned for unknown or expired bearer tokens.
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

// Store manages accounts and their bearer tokens.
type Store struct {
	accounts *mongo.Collection
	tokens   *mongo.Collection
	tokenTTL time.Duration
}

func New(db *mongo.Database, tokenTTL time.Duration) *Store {
	return &Store{
		accounts: db.Collection("accounts"),
		tokens:   db.Collection("access_tokens"),
		tokenTTL: tokenTTL,
	}
}

// Create inserts a new confirmed account with a bcrypt password hash.
func (s *Store) Create(ctx context.Context, email, password string) (models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}

	now := time.Now()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: hash,
		Confirmed:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.accounts.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return a, nil
}

// GetByID loads an account by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var a models.Account
	if err := s.accounts.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail looks up an account by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := s.accounts.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all accounts sorted by email.
func (s *Store) List(ctx context.Context) ([]models.Account, error) {
	cur, err := s.accounts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Account
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyPassword checks credentials and returns the account on success.
// Failures of any kind (unknown email, wrong password) return
// ErrInvalidCredentials.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// UpdateEmail changes an account's email. Returns ErrDuplicateEmail
// when another account already has it.
func (s *Store) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	_, err := s.accounts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"email": normalize.Email(email), "updated_at": time.Now()}})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	return err
}

// UpdatePassword replaces an account's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.accounts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
	return err
}

// Delete removes an account and revokes its tokens. Returns the number
// of accounts deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if err := s.RevokeTokensFor(ctx, id); err != nil {
		return 0, err
	}
	res, err := s.accounts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IssueToken mints a fresh opaque bearer token for the account.
func (s *Store) IssueToken(ctx context.Context, userID primitive.ObjectID) (models.AccessToken, error) {
	now := time.Now()
	tok := models.AccessToken{
		ID:        primitive.NewObjectID(),
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if _, err := s.tokens.InsertOne(ctx, tok); err != nil {
		return models.AccessToken{}, err
	}
	return tok, nil
}

// RevokeToken deletes a single token. Revoking an unknown token is not
// an error.
func (s *Store) RevokeToken(ctx context.Context, token string) error {
	_, err := s.tokens.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// RevokeTokensFor deletes every token belonging to the account.
func (s *Store) RevokeTokensFor(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.tokens.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// UserForToken resolves a bearer token to the owning account. Expired
// tokens are rejected here even if the TTL index has not swept them
// yet.
func (s *Store) UserForToken(ctx context.Context, token string) (string, string, error) {
	var tok models.AccessToken
	err := s.tokens.FindOne(ctx, bson.M{"token": token}).Decode(&tok)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", "", ErrTokenInvalid
		}
		return "", "", err
	}
	if time.Now().After(tok.ExpiresAt) {
		return "", "", ErrTokenInvalid
	}

	a, err := s.GetByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", "", ErrTokenInvalid
		}
		return "", "", err
	}
	return a.ID.Hex(), a.Email, nil
}

package rolestore_test

import (
	"errors"
	"testing"

	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"github.com/matheusmeigre/docportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_UpsertCreatesAndReplaces(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	granter := primitive.NewObjectID()

	ra, err := store.Upsert(ctx, userID, models.RoleAnalista, &granter)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if ra.Role != models.RoleAnalista {
		t.Errorf("Role: got %q, want %q", ra.Role, models.RoleAnalista)
	}
	if ra.AssignedBy == nil || *ra.AssignedBy != granter {
		t.Errorf("AssignedBy: got %v, want %v", ra.AssignedBy, granter)
	}

	// A second upsert replaces the role instead of adding a row.
	ra2, err := store.Upsert(ctx, userID, models.RoleCoordenador, &granter)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if ra2.Role != models.RoleCoordenador {
		t.Errorf("Role after replace: got %q, want %q", ra2.Role, models.RoleCoordenador)
	}
	if ra2.ID != ra.ID {
		t.Errorf("expected same row to be updated, got new ID %v", ra2.ID)
	}

	count, err := db.Collection("user_roles").CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 role row, got %d", count)
	}
}

func TestStore_UpsertRejectsUnknownRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, primitive.NewObjectID(), "Supervisor", nil); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_RoleOf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, err := store.Upsert(ctx, userID, models.RoleGerente, nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	role, err := store.RoleOf(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != models.RoleGerente {
		t.Errorf("RoleOf: got %q, want %q", role, models.RoleGerente)
	}

	// Unassigned user has no role, not an error.
	role, err = store.RoleOf(ctx, primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("RoleOf for unassigned failed: %v", err)
	}
	if role != "" {
		t.Errorf("RoleOf for unassigned: got %q, want empty", role)
	}

	// Malformed ID is treated as no role.
	role, err = store.RoleOf(ctx, "not-a-hex-id")
	if err != nil {
		t.Fatalf("RoleOf for malformed ID failed: %v", err)
	}
	if role != "" {
		t.Errorf("RoleOf for malformed ID: got %q, want empty", role)
	}
}

func TestStore_DeleteByUserID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, err := store.Upsert(ctx, userID, models.RoleAnalista, nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	n, err := store.DeleteByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("DeleteByUserID failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}

	if _, err := store.GetByUserID(ctx, userID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("want ErrNoDocuments after delete, got %v", err)
	}
}

func TestStore_ClearAssignedBy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	granter := primitive.NewObjectID()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	if _, err := store.Upsert(ctx, userA, models.RoleAnalista, &granter); err != nil {
		t.Fatalf("Upsert A failed: %v", err)
	}
	if _, err := store.Upsert(ctx, userB, models.RoleCoordenador, &granter); err != nil {
		t.Fatalf("Upsert B failed: %v", err)
	}

	if err := store.ClearAssignedBy(ctx, granter); err != nil {
		t.Fatalf("ClearAssignedBy failed: %v", err)
	}

	for _, uid := range []primitive.ObjectID{userA, userB} {
		ra, err := store.GetByUserID(ctx, uid)
		if err != nil {
			t.Fatalf("GetByUserID failed: %v", err)
		}
		if ra.AssignedBy != nil {
			t.Errorf("user %v: AssignedBy still set: %v", uid, ra.AssignedBy)
		}
		if ra.Role == "" {
			t.Errorf("user %v: role was lost", uid)
		}
	}
}

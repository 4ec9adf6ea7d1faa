package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password of every fixture user.
const FixturePassword = "fixture-pass"

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

// CreateUser inserts an active fisherman with the given name and email,
// 800 tokens, and FixturePassword as the password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		LicenseID:    "TN-FSH-" + strings.ToUpper(primitive.NewObjectID().Hex()),
		Region:       "Tamil Nadu Coast",
		Tokens:       800,
		Role:         models.RoleFisherman,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// CreateCatch inserts a catch owned by owner.
func (f *Fixtures) CreateCatch(ctx context.Context, owner models.User, fishType string, quantity, weight float64) models.Catch {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Catch{
		ID:        primitive.NewObjectID(),
		FishType:  fishType,
		Quantity:  quantity,
		Weight:    weight,
		Location:  models.Location{Latitude: 13.08, Longitude: 80.27, Address: "Kasimedu"},
		Date:      now,
		Time:      "05:30",
		UserID:    owner.ID,
		UserName:  owner.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("catches").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create catch: %v", err)
	}
	return c
}

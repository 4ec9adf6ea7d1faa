package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeUsers map[primitive.ObjectID]*models.User

func (f fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

type captured struct {
	err error
}

func (c *captured) write(w http.ResponseWriter, _ *http.Request, err error) {
	c.err = err
	w.WriteHeader(http.StatusUnauthorized)
}

func newResolver(users fakeUsers, c *captured) (*auth.Resolver, *auth.TokenCodec) {
	codec := auth.NewTokenCodec(testSecret, 0)
	return auth.NewResolver(codec, users, c.write, zap.NewNop()), codec
}

func TestResolve_ActiveUser(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Name: "Selvam", Active: true}
	rv, codec := newResolver(fakeUsers{u.ID: u}, &captured{})

	tok, err := codec.Issue(u.ID.Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := rv.Resolve(context.Background(), tok)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user: got %s, want %s", got.ID.Hex(), u.ID.Hex())
	}
}

func TestResolve_Failures(t *testing.T) {
	active := &models.User{ID: primitive.NewObjectID(), Active: true}
	inactive := &models.User{ID: primitive.NewObjectID(), Active: false}
	users := fakeUsers{active.ID: active, inactive.ID: inactive}
	rv, codec := newResolver(users, &captured{})

	issue := func(id string) string {
		tok, err := codec.Issue(id)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		return tok
	}
	expired, err := auth.NewTokenCodec(testSecret, -time.Minute).Issue(active.ID.Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"no token", "", auth.ErrUnauthenticated},
		{"garbage", "not.a.token", auth.ErrUnauthenticated},
		{"expired", expired, auth.ErrExpiredToken},
		{"non-objectid subject", issue("12345"), auth.ErrUnauthenticated},
		{"unknown user", issue(primitive.NewObjectID().Hex()), auth.ErrUserNotFound},
		{"deactivated", issue(inactive.ID.Hex()), auth.ErrAccountDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rv.Resolve(context.Background(), tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRequireUser_InjectsUser(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Name: "Selvam", Active: true}
	c := &captured{}
	rv, codec := newResolver(fakeUsers{u.ID: u}, c)
	tok, err := codec.Issue(u.ID.Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var seen *models.User
	h := rv.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d (err=%v)", http.StatusOK, rec.Code, c.err)
	}
	if seen == nil || seen.ID != u.ID {
		t.Error("expected resolved user in request context")
	}
}

func TestRequireUser_MissingHeader(t *testing.T) {
	c := &captured{}
	rv, _ := newResolver(fakeUsers{}, c)

	called := false
	h := rv.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/me", nil))

	if called {
		t.Error("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !errors.Is(c.err, auth.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", c.err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := auth.BearerToken(r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCurrentUser_Absent(t *testing.T) {
	if _, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no user on a bare request")
	}
}

func TestRequireRole(t *testing.T) {
	var c captured
	rv, _ := newResolver(fakeUsers{}, &c)

	reached := false
	h := rv.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	tests := []struct {
		name    string
		user    *models.User
		reach   bool
		wantErr error
	}{
		{"admin", &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, Active: true}, true, nil},
		{"fisherman", &models.User{ID: primitive.NewObjectID(), Role: models.RoleFisherman, Active: true}, false, auth.ErrRoleRequired},
		{"no user", nil, false, auth.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached, c.err = false, nil
			r := httptest.NewRequest("GET", "/admin/audit", nil)
			if tt.user != nil {
				r = auth.WithTestUser(r, tt.user)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			if reached != tt.reach {
				t.Errorf("reached: got %v, want %v", reached, tt.reach)
			}
			if !errors.Is(c.err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", c.err, tt.wantErr)
			}
		})
	}
}

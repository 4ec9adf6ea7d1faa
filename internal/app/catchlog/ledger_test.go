package catchlog_test

import (
	"errors"
	"math"
	"testing"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/catchlog"
	"github.com/dalemusser/fishnet/internal/app/policy/catchpolicy"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/indexes"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/dalemusser/fishnet/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	ledger *catchlog.Ledger
	dir    *accounts.Directory
	fx     *testutil.Fixtures
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	dir := accounts.NewDirectory(db, auth.NewHasher(bcrypt.MinCost), auth.NewTokenCodec("s", 0), zap.NewNop())
	return env{
		ledger: catchlog.NewLedger(db, dir, zap.NewNop()),
		dir:    dir,
		fx:     testutil.NewFixtures(t, db),
	}
}

func ptr[T any](v T) *T { return &v }

func input(fishType string, weight float64) catchlog.CatchInput {
	return catchlog.CatchInput{
		FishType: fishType,
		Quantity: ptr(2.0),
		Weight:   ptr(weight),
		Location: &catchlog.LocationInput{Latitude: ptr(13.1), Longitude: ptr(80.3), Address: "Ennore"},
		Time:     "06:15",
	}
}

func TestCreate_StampsAndStats(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := e.fx.CreateUser(ctx, "Anbu", "anbu@example.com")

	for _, in := range []catchlog.CatchInput{input("A", 1.0), input("B", 2.5), input("A", 3.5)} {
		c, err := e.ledger.Create(ctx, &u, in)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if c.UserID != u.ID || c.UserName != "Anbu" {
			t.Errorf("owner: got %s/%q", c.UserID.Hex(), c.UserName)
		}
		if c.Verified || c.Date.IsZero() || c.CreatedAt.IsZero() {
			t.Errorf("stamps: %+v", c)
		}
	}

	got, err := e.dir.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := models.UserStats{TotalCatches: 3, TotalWeight: 7.0, UniqueFishTypes: 2}
	if got.Stats != want {
		t.Errorf("stats: got %+v, want %+v", got.Stats, want)
	}
}

func TestCreate_Validation(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := e.fx.CreateUser(ctx, "V", "v@example.com")

	bad := map[string]func(*catchlog.CatchInput){
		"no fish type":   func(in *catchlog.CatchInput) { in.FishType = " " },
		"no time":        func(in *catchlog.CatchInput) { in.Time = "" },
		"neg weight":     func(in *catchlog.CatchInput) { in.Weight = ptr(-1.0) },
		"neg quantity":   func(in *catchlog.CatchInput) { in.Quantity = ptr(-0.5) },
		"nan weight":     func(in *catchlog.CatchInput) { in.Weight = ptr(math.NaN()) },
		"latitude high":  func(in *catchlog.CatchInput) { in.Location.Latitude = ptr(91.0) },
		"longitude low":  func(in *catchlog.CatchInput) { in.Location.Longitude = ptr(-181.0) },
		"markup only ft": func(in *catchlog.CatchInput) { in.FishType = "<b></b>" },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			in := input("Tuna", 1)
			mutate(&in)
			if _, err := e.ledger.Create(ctx, &u, in); !errors.Is(err, catchlog.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := e.fx.CreateUser(ctx, "R", "r@example.com")

	tests := []struct {
		name   string
		mutate func(*catchlog.CatchInput)
		msg    string
	}{
		{"no quantity", func(in *catchlog.CatchInput) { in.Quantity = nil }, "Quantity is required"},
		{"no weight", func(in *catchlog.CatchInput) { in.Weight = nil }, "Weight is required"},
		{"no location", func(in *catchlog.CatchInput) { in.Location = nil }, "Location is required"},
		{"no latitude", func(in *catchlog.CatchInput) { in.Location.Latitude = nil }, "Latitude is required"},
		{"no longitude", func(in *catchlog.CatchInput) { in.Location.Longitude = nil }, "Longitude is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input("Tuna", 1)
			tt.mutate(&in)
			_, err := e.ledger.Create(ctx, &u, in)
			var ve *catchlog.ValidationError
			if !errors.As(err, &ve) || ve.Msg != tt.msg {
				t.Errorf("expected validation %q, got %v", tt.msg, err)
			}
		})
	}

	// Zero is a valid measurement and a valid coordinate when sent.
	in := input("Tuna", 0)
	in.Quantity = ptr(0.0)
	in.Location = &catchlog.LocationInput{Latitude: ptr(0.0), Longitude: ptr(0.0)}
	c, err := e.ledger.Create(ctx, &u, in)
	if err != nil {
		t.Fatalf("Create with explicit zeros failed: %v", err)
	}
	if c.Weight != 0 || c.Quantity != 0 || c.Location.Latitude != 0 {
		t.Errorf("zeros: %+v", c)
	}

	n, err := e.ledger.StatsForOwner(ctx, u.ID)
	if err != nil {
		t.Fatalf("StatsForOwner failed: %v", err)
	}
	if n.TotalCatches != 1 {
		t.Errorf("only the explicit-zero catch should be stored, got %d", n.TotalCatches)
	}
}

func TestCreate_SanitizesText(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := e.fx.CreateUser(ctx, "S", "s@example.com")
	in := input("<i>Seer</i> fish", 4)
	in.Notes = `<script>alert(1)</script>near the reef`

	c, err := e.ledger.Create(ctx, &u, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.FishType != "Seer fish" {
		t.Errorf("FishType: got %q", c.FishType)
	}
	if c.Notes != "near the reef" {
		t.Errorf("Notes: got %q", c.Notes)
	}
}

func TestList_OwnerAndPublic(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := e.fx.CreateUser(ctx, "A", "a@example.com")
	b := e.fx.CreateUser(ctx, "B", "b@example.com")
	e.fx.CreateCatch(ctx, a, "Tuna", 1, 1)
	e.fx.CreateCatch(ctx, a, "Mackerel", 1, 1)
	e.fx.CreateCatch(ctx, b, "Tuna", 1, 1)

	mine, err := e.ledger.ListByOwner(ctx, a.ID, catchlog.ListFilter{})
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("owner list: got %d", len(mine))
	}
	for _, c := range mine {
		if c.UserID != a.ID {
			t.Errorf("foreign catch in owner list: %s", c.UserID.Hex())
		}
	}

	all, err := e.ledger.ListAll(ctx, catchlog.ListFilter{})
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("public list: got %d", len(all))
	}

	tuna, err := e.ledger.ListAll(ctx, catchlog.ListFilter{FishType: "Tuna"})
	if err != nil {
		t.Fatalf("ListAll(Tuna) failed: %v", err)
	}
	if len(tuna) != 2 {
		t.Errorf("filtered list: got %d", len(tuna))
	}

	one, err := e.ledger.ListByOwner(ctx, a.ID, catchlog.ListFilter{Limit: 1, Skip: -3})
	if err != nil {
		t.Fatalf("ListByOwner(limit) failed: %v", err)
	}
	if len(one) != 1 {
		t.Errorf("limit 1: got %d", len(one))
	}

	none, err := e.ledger.ListByOwner(ctx, primitive.NewObjectID(), catchlog.ListFilter{})
	if err != nil {
		t.Fatalf("ListByOwner(empty) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("empty list: got %#v", none)
	}
}

func TestGet(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := e.fx.CreateUser(ctx, "G", "g@example.com")
	c := e.fx.CreateCatch(ctx, u, "Prawn", 3, 0.6)

	got, err := e.ledger.Get(ctx, c.ID.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FishType != "Prawn" {
		t.Errorf("FishType: got %q", got.FishType)
	}
	if _, err := e.ledger.Get(ctx, "not-an-id"); !errors.Is(err, catchlog.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if _, err := e.ledger.Get(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, catchlog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := e.fx.CreateUser(ctx, "A", "a@example.com")
	b := e.fx.CreateUser(ctx, "B", "b@example.com")

	empty, err := e.ledger.StatsForOwner(ctx, a.ID)
	if err != nil {
		t.Fatalf("StatsForOwner(empty) failed: %v", err)
	}
	if empty != (models.CatchStats{}) {
		t.Errorf("empty stats: got %+v", empty)
	}

	e.fx.CreateCatch(ctx, a, "Tuna", 2, 4)
	e.fx.CreateCatch(ctx, a, "Tuna", 4, 8)
	e.fx.CreateCatch(ctx, b, "Crab", 6, 3)

	s, err := e.ledger.StatsForOwner(ctx, a.ID)
	if err != nil {
		t.Fatalf("StatsForOwner failed: %v", err)
	}
	want := models.CatchStats{TotalCatches: 2, TotalQuantity: 6, TotalWeight: 12, AvgQuantity: 3, AvgWeight: 6}
	if s != want {
		t.Errorf("owner stats: got %+v, want %+v", s, want)
	}

	g, err := e.ledger.GlobalStats(ctx)
	if err != nil {
		t.Fatalf("GlobalStats failed: %v", err)
	}
	if g.TotalCatches != 3 || g.TotalWeight != 15 || g.TotalQuantity != 12 {
		t.Errorf("global stats: got %+v", g)
	}
}

func TestAuthorize(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := e.fx.CreateUser(ctx, "O", "o@example.com")
	other := e.fx.CreateUser(ctx, "X", "x@example.com")
	c := e.fx.CreateCatch(ctx, owner, "Tuna", 1, 2)

	got, err := e.ledger.Authorize(ctx, c.ID.Hex(), owner.ID, catchpolicy.ActionUpdate)
	if err != nil {
		t.Fatalf("owner Authorize failed: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("authorized catch: got %s, want %s", got.ID.Hex(), c.ID.Hex())
	}

	for _, action := range []catchpolicy.Action{catchpolicy.ActionUpdate, catchpolicy.ActionDelete} {
		if _, err := e.ledger.Authorize(ctx, c.ID.Hex(), other.ID, action); !errors.Is(err, catchlog.ErrForbidden) {
			t.Errorf("%s by non-owner: expected ErrForbidden, got %v", action, err)
		}
	}
	if _, err := e.ledger.Authorize(ctx, "zzz", owner.ID, catchpolicy.ActionUpdate); !errors.Is(err, catchlog.ErrInvalidID) {
		t.Errorf("bad id: expected ErrInvalidID, got %v", err)
	}
	if _, err := e.ledger.Authorize(ctx, primitive.NewObjectID().Hex(), owner.ID, catchpolicy.ActionDelete); !errors.Is(err, catchlog.ErrNotFound) {
		t.Errorf("missing: expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := e.fx.CreateUser(ctx, "O", "o@example.com")
	other := e.fx.CreateUser(ctx, "X", "x@example.com")
	c := e.fx.CreateCatch(ctx, owner, "Tuna", 1, 2)

	if _, err := e.ledger.Update(ctx, c.ID.Hex(), other.ID, catchlog.CatchPatch{Weight: ptr(9.0)}); !errors.Is(err, catchlog.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := e.ledger.Update(ctx, "zzz", owner.ID, catchlog.CatchPatch{}); !errors.Is(err, catchlog.ErrInvalidID) {
		t.Errorf("bad id: expected ErrInvalidID, got %v", err)
	}
	if _, err := e.ledger.Update(ctx, primitive.NewObjectID().Hex(), owner.ID, catchlog.CatchPatch{}); !errors.Is(err, catchlog.ErrNotFound) {
		t.Errorf("missing: expected ErrNotFound, got %v", err)
	}
	if _, err := e.ledger.Update(ctx, c.ID.Hex(), owner.ID, catchlog.CatchPatch{Weight: ptr(-2.0)}); !errors.Is(err, catchlog.ErrValidation) {
		t.Errorf("negative: expected ErrValidation, got %v", err)
	}

	got, err := e.ledger.Update(ctx, c.ID.Hex(), owner.ID, catchlog.CatchPatch{
		FishType: ptr("Skipjack"),
		Weight:   ptr(5.5),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.FishType != "Skipjack" || got.Weight != 5.5 || got.Time != c.Time || got.UserID != owner.ID {
		t.Errorf("updated: %+v", got)
	}

	u, err := e.dir.Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if u.Stats.TotalWeight != 5.5 || u.Stats.TotalCatches != 1 {
		t.Errorf("stats after update: %+v", u.Stats)
	}
}

func TestDelete(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := e.fx.CreateUser(ctx, "O", "o@example.com")
	other := e.fx.CreateUser(ctx, "X", "x@example.com")
	keep := e.fx.CreateCatch(ctx, owner, "Tuna", 1, 2)
	drop := e.fx.CreateCatch(ctx, owner, "Crab", 1, 3)

	if err := e.ledger.Delete(ctx, drop.ID.Hex(), other.ID); !errors.Is(err, catchlog.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got %v", err)
	}
	if err := e.ledger.Delete(ctx, drop.ID.Hex(), owner.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := e.ledger.Delete(ctx, drop.ID.Hex(), owner.ID); !errors.Is(err, catchlog.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := e.ledger.Get(ctx, keep.ID.Hex()); err != nil {
		t.Errorf("kept catch: %v", err)
	}

	u, err := e.dir.Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	want := models.UserStats{TotalCatches: 1, TotalWeight: 2, UniqueFishTypes: 1}
	if u.Stats != want {
		t.Errorf("stats after delete: got %+v, want %+v", u.Stats, want)
	}
}

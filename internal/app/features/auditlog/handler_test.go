package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/fishnet/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/fishnet/internal/app/features/errors"
	"github.com/dalemusser/fishnet/internal/app/store/audit"
	userstore "github.com/dalemusser/fishnet/internal/app/store/users"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/dalemusser/fishnet/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type listResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Total  int64         `json:"total"`
		Limit  int64         `json:"limit"`
		Events []audit.Event `json:"events"`
	} `json:"data"`
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	codec := auth.NewTokenCodec("audit-handler-secret", 0)
	errLog := uierrors.NewErrorLogger(logger)
	rv := auth.NewResolver(codec, userstore.New(db), errLog.Write, logger)
	store := audit.New(db)
	h := auditlog.Routes(auditlog.NewHandler(store, errLog, logger), rv)

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@example.com")
	if _, err := db.Collection("users").UpdateByID(ctx, admin.ID, bson.M{"$set": bson.M{"role": models.RoleAdmin}}); err != nil {
		t.Fatalf("set role: %v", err)
	}
	fisher := fx.CreateUser(ctx, "Fisher", "fisher@example.com")

	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &fisher.ID, Success: true},
		{Category: audit.CategoryTokens, EventType: audit.EventTokensSpent, UserID: &fisher.ID, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &admin.ID, Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	get := func(path string, u models.User) *testutil.ResponseRecorder {
		t.Helper()
		tok, err := codec.Issue(u.ID.Hex())
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		req := testutil.NewJSONRequest(t, "GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := testutil.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	all := get("/", admin)
	all.AssertStatus(t, http.StatusOK)
	var resp listResponse
	all.Decode(t, &resp)
	if resp.Data.Total != 3 || len(resp.Data.Events) != 3 || resp.Data.Limit != 50 {
		t.Errorf("unfiltered: total=%d events=%d limit=%d", resp.Data.Total, len(resp.Data.Events), resp.Data.Limit)
	}

	byUser := get("/?category=auth&userId="+fisher.ID.Hex(), admin)
	byUser.AssertStatus(t, http.StatusOK)
	var filtered listResponse
	byUser.Decode(t, &filtered)
	if filtered.Data.Total != 1 || len(filtered.Data.Events) != 1 || filtered.Data.Events[0].EventType != audit.EventLoginSuccess {
		t.Errorf("filtered: %+v", filtered.Data)
	}

	paged := get("/?limit=1&skip=1", admin)
	var page listResponse
	paged.Decode(t, &page)
	if page.Data.Total != 3 || len(page.Data.Events) != 1 {
		t.Errorf("paged: total=%d events=%d", page.Data.Total, len(page.Data.Events))
	}

	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
	future := get("/?start="+tomorrow, admin)
	future.AssertStatus(t, http.StatusOK)
	future.AssertContains(t, `"events":[]`)

	get("/?userId=nope", admin).AssertStatus(t, http.StatusBadRequest)
	get("/?start=yesterday", admin).AssertStatus(t, http.StatusBadRequest)

	denied := get("/", fisher)
	denied.AssertStatus(t, http.StatusForbidden)
	denied.AssertContains(t, "Insufficient permissions")

	anon := testutil.NewRecorder()
	h.ServeHTTP(anon, testutil.NewJSONRequest(t, "GET", "/", nil))
	anon.AssertStatus(t, http.StatusUnauthorized)
}

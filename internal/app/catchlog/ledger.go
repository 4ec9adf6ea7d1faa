// Package catchlog records fishing catches and enforces that only a catch's
// owner may change it.
package catchlog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dalemusser/fishnet/internal/app/policy/catchpolicy"
	catchstore "github.com/dalemusser/fishnet/internal/app/store/catches"
	"github.com/dalemusser/fishnet/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fishnet/internal/app/system/paging"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatsRecomputer rebuilds a user's denormalized catch summary.
// accounts.Directory satisfies it.
type StatsRecomputer interface {
	RecomputeStats(ctx context.Context, userID primitive.ObjectID) (models.UserStats, error)
}

// Ledger is the catch service.
type Ledger struct {
	catches *catchstore.Store
	stats   StatsRecomputer
	log     *zap.Logger
}

// NewLedger wires a Ledger over the catches collection of db.
func NewLedger(db *mongo.Database, stats StatsRecomputer, logger *zap.Logger) *Ledger {
	return &Ledger{catches: catchstore.New(db), stats: stats, log: logger}
}

// CatchInput is a new catch as submitted by its owner. Nil pointers are
// fields the client left out.
type CatchInput struct {
	FishType string
	Quantity *float64
	Weight   *float64
	Location *LocationInput
	Time     string
	Notes    string
	Weather  *models.Weather
}

// LocationInput is the submitted landing position. Both coordinates are
// required.
type LocationInput struct {
	Latitude  *float64
	Longitude *float64
	Address   string
}

// CatchPatch holds the fields an owner may edit. Nil means "leave alone".
type CatchPatch struct {
	FishType *string
	Quantity *float64
	Weight   *float64
	Notes    *string
	Time     *string
}

// Fields lists the names of the fields present in p.
func (p CatchPatch) Fields() []string {
	var out []string
	if p.FishType != nil {
		out = append(out, "fishType")
	}
	if p.Quantity != nil {
		out = append(out, "quantity")
	}
	if p.Weight != nil {
		out = append(out, "weight")
	}
	if p.Notes != nil {
		out = append(out, "notes")
	}
	if p.Time != nil {
		out = append(out, "time")
	}
	return out
}

// ListFilter narrows a list. Limit and Skip are clamped per endpoint.
type ListFilter struct {
	FishType string
	Limit    int64
	Skip     int64
}

// Create records a catch for owner and refreshes owner's stats.
func (l *Ledger) Create(ctx context.Context, owner *models.User, in CatchInput) (*models.Catch, error) {
	fishType := htmlsanitize.PlainText(in.FishType)
	if fishType == "" {
		return nil, invalid("Fish type is required")
	}
	t := strings.TrimSpace(in.Time)
	if t == "" {
		return nil, invalid("Time is required")
	}
	if in.Quantity == nil {
		return nil, invalid("Quantity is required")
	}
	if err := checkMeasure("Quantity", *in.Quantity); err != nil {
		return nil, err
	}
	if in.Weight == nil {
		return nil, invalid("Weight is required")
	}
	if err := checkMeasure("Weight", *in.Weight); err != nil {
		return nil, err
	}
	loc, err := checkLocation(in.Location)
	if err != nil {
		return nil, err
	}

	var weather *models.Weather
	if in.Weather != nil {
		w := *in.Weather
		w.Condition = htmlsanitize.PlainText(w.Condition)
		weather = &w
	}

	c, err := l.catches.Create(ctx, models.Catch{
		FishType: fishType,
		Quantity: *in.Quantity,
		Weight:   *in.Weight,
		Location: loc,
		Time:     t,
		UserID:   owner.ID,
		UserName: owner.Name,
		Notes:    htmlsanitize.PlainText(in.Notes),
		Weather:  weather,
	})
	if err != nil {
		return nil, fmt.Errorf("insert catch: %w", err)
	}

	if err := l.refreshStats(ctx, owner.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns ownerID's catches, newest first.
func (l *Ledger) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, f ListFilter) ([]models.Catch, error) {
	w := paging.Owner.Clamp(f.Limit, f.Skip)
	return l.catches.List(ctx, catchstore.ListFilter{
		UserID:   &ownerID,
		FishType: f.FishType,
		Limit:    w.Limit,
		Skip:     w.Skip,
	})
}

// ListAll returns every user's catches, newest first.
func (l *Ledger) ListAll(ctx context.Context, f ListFilter) ([]models.Catch, error) {
	w := paging.Public.Clamp(f.Limit, f.Skip)
	return l.catches.List(ctx, catchstore.ListFilter{
		FishType: f.FishType,
		Limit:    w.Limit,
		Skip:     w.Skip,
	})
}

// Get loads a catch by hex id.
func (l *Ledger) Get(ctx context.Context, id string) (*models.Catch, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	c, err := l.catches.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load catch: %w", err)
	}
	return c, nil
}

// StatsForOwner aggregates ownerID's catches. No catches yields zeros.
func (l *Ledger) StatsForOwner(ctx context.Context, ownerID primitive.ObjectID) (models.CatchStats, error) {
	return l.catches.Stats(ctx, &ownerID)
}

// GlobalStats aggregates every catch.
func (l *Ledger) GlobalStats(ctx context.Context) (models.CatchStats, error) {
	return l.catches.Stats(ctx, nil)
}

// Authorize loads the catch and checks that callerID may perform action on
// it. Errors are ErrInvalidID, ErrNotFound, or ErrForbidden.
func (l *Ledger) Authorize(ctx context.Context, id string, callerID primitive.ObjectID, action catchpolicy.Action) (*models.Catch, error) {
	c, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !catchpolicy.CanModify(callerID, c, action) {
		return nil, ErrForbidden
	}
	return c, nil
}

// Update applies patch to the catch if callerID owns it.
func (l *Ledger) Update(ctx context.Context, id string, callerID primitive.ObjectID, patch CatchPatch) (*models.Catch, error) {
	c, err := l.Authorize(ctx, id, callerID, catchpolicy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	return l.Apply(ctx, c, patch)
}

// Apply writes patch to c, which the caller has already authorized.
func (l *Ledger) Apply(ctx context.Context, c *models.Catch, patch CatchPatch) (*models.Catch, error) {
	upd, err := patch.toUpdate()
	if err != nil {
		return nil, err
	}

	updated, err := l.catches.Update(ctx, c.ID, upd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update catch: %w", err)
	}

	if err := l.refreshStats(ctx, c.UserID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the catch if callerID owns it.
func (l *Ledger) Delete(ctx context.Context, id string, callerID primitive.ObjectID) error {
	c, err := l.Authorize(ctx, id, callerID, catchpolicy.ActionDelete)
	if err != nil {
		return err
	}

	n, err := l.catches.Delete(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("delete catch: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return l.refreshStats(ctx, c.UserID)
}

func (l *Ledger) refreshStats(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := l.stats.RecomputeStats(ctx, userID); err != nil {
		l.log.Error("recompute user stats failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		return fmt.Errorf("recompute stats: %w", err)
	}
	return nil
}

func (p CatchPatch) toUpdate() (catchstore.CatchUpdate, error) {
	var upd catchstore.CatchUpdate
	if p.FishType != nil {
		ft := htmlsanitize.PlainText(*p.FishType)
		if ft == "" {
			return upd, invalid("Fish type cannot be empty")
		}
		upd.FishType = &ft
	}
	if p.Quantity != nil {
		if err := checkMeasure("Quantity", *p.Quantity); err != nil {
			return upd, err
		}
		upd.Quantity = p.Quantity
	}
	if p.Weight != nil {
		if err := checkMeasure("Weight", *p.Weight); err != nil {
			return upd, err
		}
		upd.Weight = p.Weight
	}
	if p.Notes != nil {
		notes := htmlsanitize.PlainText(*p.Notes)
		upd.Notes = &notes
	}
	if p.Time != nil {
		t := strings.TrimSpace(*p.Time)
		if t == "" {
			return upd, invalid("Time cannot be empty")
		}
		upd.Time = &t
	}
	return upd, nil
}

func checkMeasure(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(name + " must be a non-negative number")
	}
	return nil
}

func checkLocation(in *LocationInput) (models.Location, error) {
	switch {
	case in == nil:
		return models.Location{}, invalid("Location is required")
	case in.Latitude == nil:
		return models.Location{}, invalid("Latitude is required")
	case in.Longitude == nil:
		return models.Location{}, invalid("Longitude is required")
	}
	lat, lng := *in.Latitude, *in.Longitude
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return models.Location{}, invalid("Latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return models.Location{}, invalid("Longitude must be between -180 and 180")
	}
	return models.Location{
		Latitude:  lat,
		Longitude: lng,
		Address:   htmlsanitize.PlainText(in.Address),
	}, nil
}

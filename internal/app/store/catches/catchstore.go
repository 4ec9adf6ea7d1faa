package catchstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("catches")}
}

// Create inserts c with a fresh id. Date and timestamps are server time.
func (s *Store) Create(ctx context.Context, c models.Catch) (models.Catch, error) {
	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.Date = now
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Verified = false

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Catch{}, err
	}
	return c, nil
}

// GetByID loads a catch. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Catch, error) {
	var c models.Catch
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListFilter narrows List. A nil UserID lists every owner.
type ListFilter struct {
	UserID   *primitive.ObjectID
	FishType string
	Limit    int64
	Skip     int64
}

// List returns catches newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Catch, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if ft := strings.TrimSpace(f.FishType); ft != "" {
		filter["fishType"] = ft
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Catch{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CatchUpdate carries the editable catch fields. Nil fields are left alone.
type CatchUpdate struct {
	FishType *string
	Quantity *float64
	Weight   *float64
	Notes    *string
	Time     *string
}

// Update applies upd and returns the updated catch.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd CatchUpdate) (*models.Catch, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.FishType != nil {
		set["fishType"] = *upd.FishType
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Weight != nil {
		set["weight"] = *upd.Weight
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Catch
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a catch and reports how many documents went away.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Stats aggregates catch totals and averages, for one owner or (nil) for
// all catches. An empty set yields all zeros.
func (s *Store) Stats(ctx context.Context, userID *primitive.ObjectID) (models.CatchStats, error) {
	match := bson.M{}
	if userID != nil {
		match["userId"] = *userID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalCatches":  bson.M{"$sum": 1},
			"totalQuantity": bson.M{"$sum": "$quantity"},
			"totalWeight":   bson.M{"$sum": "$weight"},
			"avgQuantity":   bson.M{"$avg": "$quantity"},
			"avgWeight":     bson.M{"$avg": "$weight"},
		}}},
	}

	var rows []models.CatchStats
	if err := s.aggregate(ctx, pipeline, &rows); err != nil {
		return models.CatchStats{}, err
	}
	if len(rows) == 0 {
		return models.CatchStats{}, nil
	}
	return rows[0], nil
}

// OwnerSummary computes the denormalized stats block kept on a user.
func (s *Store) OwnerSummary(ctx context.Context, userID primitive.ObjectID) (models.UserStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalCatches": bson.M{"$sum": 1},
			"totalWeight":  bson.M{"$sum": "$weight"},
			"fishTypes":    bson.M{"$addToSet": "$fishType"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":             0,
			"totalCatches":    1,
			"totalWeight":     1,
			"uniqueFishTypes": bson.M{"$size": "$fishTypes"},
		}}},
	}

	var rows []models.UserStats
	if err := s.aggregate(ctx, pipeline, &rows); err != nil {
		return models.UserStats{}, err
	}
	if len(rows) == 0 {
		return models.UserStats{}, nil
	}
	return rows[0], nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/fishnet/internal/app/system/normalize"
	"github.com/dalemusser/fishnet/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LicenseIndex is the name of the partial unique index on licenseId. A
// duplicate-key error naming it is a license collision; any other duplicate
// on this collection is an email collision.
const LicenseIndex = "uniq_users_license_id"

var (
	// ErrDuplicateEmail is returned when a write would reuse another user's email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateLicense is returned when a write would reuse another user's license id.
	ErrDuplicateLicense = errors.New("a user with this license id already exists")
	// ErrInsufficientTokens is returned by SpendTokens when the balance is too low.
	ErrInsufficientTokens = errors.New("insufficient tokens")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u with a fresh id and timestamps. The email is normalized
// before insert; uniqueness is left to the indexes.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.LicenseID = normalize.LicenseID(u.LicenseID)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, classifyDup(err)
	}
	return u, nil
}

// EmailExists reports whether any user has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	return n > 0, err
}

// LicenseExistsForOther checks if a license id is held by a user other than
// excludeID. Pass primitive.NilObjectID to check against everyone.
func (s *Store) LicenseExistsForOther(ctx context.Context, licenseID string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"licenseId": normalize.LicenseID(licenseID)}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	LicenseID    *string
	Region       *string
	BoatName     *string
	Experience   *int
	ProfilePhoto *string
}

// UpdateProfile applies upd and returns the updated user.
// Returns ErrDuplicateLicense if the new license id is already taken.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Phone != nil {
		set["phone"] = strings.TrimSpace(*upd.Phone)
	}
	if upd.LicenseID != nil {
		set["licenseId"] = normalize.LicenseID(*upd.LicenseID)
	}
	if upd.Region != nil {
		set["region"] = strings.TrimSpace(*upd.Region)
	}
	if upd.BoatName != nil {
		set["boatName"] = strings.TrimSpace(*upd.BoatName)
	}
	if upd.Experience != nil {
		set["experience"] = *upd.Experience
	}
	if upd.ProfilePhoto != nil {
		set["profilePhoto"] = strings.TrimSpace(*upd.ProfilePhoto)
	}

	return s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// SetPassword replaces the stored password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SpendTokens debits amount in a single conditional update, so concurrent
// spends can never take the balance below zero. On failure it returns the
// balance it observed together with ErrInsufficientTokens.
func (s *Store) SpendTokens(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error) {
	u, err := s.findAndUpdate(ctx,
		bson.M{"_id": id, "tokens": bson.M{"$gte": amount}},
		bson.M{
			"$inc": bson.M{"tokens": -amount},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
	if err == nil {
		return u.Tokens, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// Either the user is gone or the guard failed; tell them apart.
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return cur.Tokens, ErrInsufficientTokens
}

// EarnTokens credits amount and returns the new balance.
func (s *Store) EarnTokens(ctx context.Context, id primitive.ObjectID, amount int64) (int64, error) {
	u, err := s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"tokens": amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return u.Tokens, nil
}

// SetStats overwrites the denormalized catch summary.
func (s *Store) SetStats(ctx context.Context, id primitive.ObjectID, stats models.UserStats) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"stats":     stats,
		"updatedAt": time.Now().UTC(),
	}})
	return err
}

// SetActive enables or disables sign-in for a user.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":    active,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRole changes a user's role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":      normalize.Role(role),
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, classifyDup(err)
	}
	return &u, nil
}

// classifyDup maps duplicate-key errors to the matching sentinel and passes
// everything else through.
func classifyDup(err error) error {
	if !wafflemongo.IsDup(err) {
		return err
	}
	if strings.Contains(err.Error(), LicenseIndex) {
		return ErrDuplicateLicense
	}
	return ErrDuplicateEmail
}

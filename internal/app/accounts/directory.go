// Package accounts owns user registration, sign-in, profiles, and the token
// balance. Handlers call it; it never touches HTTP.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	catchstore "github.com/dalemusser/fishnet/internal/app/store/catches"
	userstore "github.com/dalemusser/fishnet/internal/app/store/users"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fishnet/internal/app/system/normalize"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// DefaultRegion is assigned when registration omits a region.
	DefaultRegion = "Tamil Nadu Coast"
	// StartingTokens is the balance every new account receives.
	StartingTokens int64 = 800
	// LicensePrefix prefixes generated license ids.
	LicensePrefix = "TN-FSH-"
)

// Directory is the user-facing account service.
type Directory struct {
	users   *userstore.Store
	catches *catchstore.Store
	hasher  *auth.Hasher
	codec   *auth.TokenCodec
	log     *zap.Logger

	now func() time.Time
}

// NewDirectory wires a Directory over the users and catches collections of db.
func NewDirectory(db *mongo.Database, hasher *auth.Hasher, codec *auth.TokenCodec, logger *zap.Logger) *Directory {
	return &Directory{
		users:   userstore.New(db),
		catches: catchstore.New(db),
		hasher:  hasher,
		codec:   codec,
		log:     logger,
		now:     time.Now,
	}
}

// Users exposes the underlying store so the identity resolver can share it.
func (d *Directory) Users() *userstore.Store { return d.users }

// RegisterInput is the profile submitted at sign-up.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	LicenseID    string
	Region       string
	BoatName     string
	Experience   int
	ProfilePhoto string
}

// Register creates an account and signs it in.
func (d *Directory) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := htmlsanitize.PlainText(normalize.Name(in.Name))
	email := normalize.Email(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", invalid("Please provide name, email, and password")
	}
	if in.Experience < 0 {
		return nil, "", invalid("Experience cannot be negative")
	}

	exists, err := d.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", ErrDuplicateEmail
	}

	license := normalize.LicenseID(in.LicenseID)
	if license != "" {
		taken, err := d.users.LicenseExistsForOther(ctx, license, primitive.NilObjectID)
		if err != nil {
			return nil, "", fmt.Errorf("check license: %w", err)
		}
		if taken {
			return nil, "", ErrDuplicateLicense
		}
	} else {
		// Not pre-checked; the unique index catches a same-millisecond clash.
		license = LicensePrefix + strconv.FormatInt(d.now().UnixMilli(), 10)
	}

	hash, err := d.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	region := htmlsanitize.PlainText(in.Region)
	if region == "" {
		region = DefaultRegion
	}

	u, err := d.users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		LicenseID:    license,
		Region:       region,
		BoatName:     htmlsanitize.PlainText(in.BoatName),
		Experience:   in.Experience,
		ProfilePhoto: strings.TrimSpace(in.ProfilePhoto),
		Tokens:       StartingTokens,
		Role:         models.RoleFisherman,
		Verified:     false,
		Active:       true,
	})
	if err != nil {
		return nil, "", mapStoreErr(err)
	}

	token, err := d.codec.Issue(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	d.log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	return &u, token, nil
}

// Authenticate checks credentials and issues a token. The active flag is
// checked before the password. When the account exists but sign-in fails,
// the user is returned alongside the error so the failure can be attributed.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return nil, "", invalid("Please provide email and password")
	}

	u, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if !u.Active {
		return u, "", ErrAccountDeactivated
	}
	if !d.hasher.Check(password, u.PasswordHash) {
		return u, "", ErrInvalidCredentials
	}

	token, err := d.codec.Issue(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Get loads a profile.
func (d *Directory) Get(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return u, nil
}

// SetActive enables or disables sign-in for userID.
func (d *Directory) SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error {
	if err := d.users.SetActive(ctx, userID, active); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// mapStoreErr translates store sentinels into this package's errors.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrUserNotFound
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, userstore.ErrDuplicateLicense):
		return ErrDuplicateLicense
	}
	return err
}

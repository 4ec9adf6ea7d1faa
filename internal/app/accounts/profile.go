package accounts

import (
	"context"
	"fmt"

	userstore "github.com/dalemusser/fishnet/internal/app/store/users"
	"github.com/dalemusser/fishnet/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fishnet/internal/app/system/normalize"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProfilePatch holds the fields a user may edit. Nil means "leave alone".
type ProfilePatch struct {
	Name         *string
	Phone        *string
	LicenseID    *string
	Region       *string
	BoatName     *string
	Experience   *int
	ProfilePhoto *string
}

// Fields lists the names of the fields present in p.
func (p ProfilePatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Name != nil, "name")
	add(p.Phone != nil, "phone")
	add(p.LicenseID != nil, "licenseId")
	add(p.Region != nil, "region")
	add(p.BoatName != nil, "boatName")
	add(p.Experience != nil, "experience")
	add(p.ProfilePhoto != nil, "profilePhoto")
	return out
}

// UpdateProfile applies patch to userID and returns the new profile.
func (d *Directory) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	upd := userstore.ProfileUpdate{
		Phone:        patch.Phone,
		ProfilePhoto: patch.ProfilePhoto,
	}

	if patch.Name != nil {
		name := htmlsanitize.PlainText(normalize.Name(*patch.Name))
		if name == "" {
			return nil, invalid("Name cannot be empty")
		}
		upd.Name = &name
	}
	if patch.Region != nil {
		region := htmlsanitize.PlainText(*patch.Region)
		upd.Region = &region
	}
	if patch.BoatName != nil {
		boat := htmlsanitize.PlainText(*patch.BoatName)
		upd.BoatName = &boat
	}
	if patch.Experience != nil {
		if *patch.Experience < 0 {
			return nil, invalid("Experience cannot be negative")
		}
		upd.Experience = patch.Experience
	}

	if patch.LicenseID != nil {
		license := normalize.LicenseID(*patch.LicenseID)
		if license == "" {
			return nil, invalid("License ID cannot be empty")
		}
		taken, err := d.users.LicenseExistsForOther(ctx, license, userID)
		if err != nil {
			return nil, fmt.Errorf("check license: %w", err)
		}
		if taken {
			return nil, ErrDuplicateLicense
		}
		upd.LicenseID = &license
	}

	u, err := d.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return u, nil
}

// ChangePassword replaces the password after verifying the current one.
func (d *Directory) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	if current == "" || next == "" {
		return invalid("Please provide current and new password")
	}

	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !d.hasher.Check(current, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := d.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := d.users.SetPassword(ctx, userID, hash); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// RecomputeStats rebuilds the catch summary on the user from every catch
// they own.
func (d *Directory) RecomputeStats(ctx context.Context, userID primitive.ObjectID) (models.UserStats, error) {
	stats, err := d.catches.OwnerSummary(ctx, userID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("summarize catches: %w", err)
	}
	if err := d.users.SetStats(ctx, userID, stats); err != nil {
		return models.UserStats{}, fmt.Errorf("store stats: %w", err)
	}
	d.log.Debug("user stats recomputed",
		zap.String("user_id", userID.Hex()),
		zap.Int64("total_catches", stats.TotalCatches))
	return stats, nil
}

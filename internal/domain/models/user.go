// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account may carry.
const (
	RoleFisherman  = "fisherman"
	RoleResearcher = "researcher"
	RoleAdmin      = "admin"
)

// UserStats is the denormalized catch summary kept on each user.
// It is rewritten after every catch mutation by the owner.
type UserStats struct {
	TotalCatches    int64   `bson:"totalCatches" json:"totalCatches"`
	TotalWeight     float64 `bson:"totalWeight" json:"totalWeight"`
	UniqueFishTypes int64   `bson:"uniqueFishTypes" json:"uniqueFishTypes"`
}

// User is a registered app account.
//
// NOTE:
//   - Email is stored lowercased; the unique index on it is what enforces
//     case-insensitive uniqueness.
//   - PasswordHash never leaves the server (json:"-").
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	LicenseID    string             `bson:"licenseId,omitempty" json:"licenseId,omitempty"`
	Region       string             `bson:"region" json:"region"`
	BoatName     string             `bson:"boatName,omitempty" json:"boatName,omitempty"`
	Experience   int                `bson:"experience" json:"experience"`
	ProfilePhoto string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Tokens       int64              `bson:"tokens" json:"tokens"`
	Role         string             `bson:"role" json:"role"` // fisherman | researcher | admin
	Verified     bool               `bson:"verified" json:"verified"`
	Active       bool               `bson:"active" json:"active"`
	Stats        UserStats          `bson:"stats" json:"stats"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

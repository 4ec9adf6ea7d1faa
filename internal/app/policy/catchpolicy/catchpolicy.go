// Package catchpolicy decides who may change a catch record.
//
// Authorization rules:
//   - Anyone may read catches (the public feed lists every owner's records)
//   - Only the user named by a catch's userId may update or delete it
//   - Role grants nothing extra; an admin editing someone else's catch is denied
package catchpolicy

import (
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names a mutation for logging and audit.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsOwner reports whether callerID owns c.
func IsOwner(callerID primitive.ObjectID, c *models.Catch) bool {
	if c == nil || callerID.IsZero() {
		return false
	}
	return c.UserID == callerID
}

// CanModify reports whether callerID may perform action on c.
func CanModify(callerID primitive.ObjectID, c *models.Catch, action Action) bool {
	switch action {
	case ActionUpdate, ActionDelete:
		return IsOwner(callerID, c)
	}
	return false
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated means no usable bearer token came with the request.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrMissingToken accompanies ErrUnauthenticated when no token was sent at all.
	ErrMissingToken = errors.New("no token provided")
	// ErrUserNotFound means the token was valid but its user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountDeactivated means the user exists but may not sign in.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrRoleRequired means the user is signed in but lacks the route's role.
	ErrRoleRequired = errors.New("insufficient role")
)

// UserFinder loads a user by id. It returns mongo.ErrNoDocuments when the
// user does not exist.
type UserFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// ErrorWriter renders a resolution failure to the client.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Resolver turns a bearer token into the active user it names.
type Resolver struct {
	codec   *TokenCodec
	users   UserFinder
	onError ErrorWriter
	log     *zap.Logger
}

// NewResolver wires a Resolver. onError is used by RequireUser to answer
// requests that fail resolution.
func NewResolver(codec *TokenCodec, users UserFinder, onError ErrorWriter, logger *zap.Logger) *Resolver {
	return &Resolver{codec: codec, users: users, onError: onError, log: logger}
}

// Resolve validates token and loads its user.
//
// Invalid, expired, or absent tokens and ids that are not ObjectIDs all come
// back as ErrUnauthenticated wrapping the codec error, so callers can still
// tell expiry apart with errors.Is when they care.
func (rv *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errors.Join(ErrUnauthenticated, ErrMissingToken)
	}
	id, err := rv.codec.Decode(token)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, ErrInvalidToken)
	}

	u, err := rv.users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrAccountDeactivated
	}
	return u, nil
}

// RequireUser gates a route on a valid bearer token for an active user.
// The resolved user is available to the handler through CurrentUser and
// lives only as long as the request.
func (rv *Resolver) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := BearerToken(r)

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), rv.log, "auth.resolve")
		u, err := rv.Resolve(ctx, token)
		cancel()
		if err != nil {
			rv.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireRole allows the request only if the resolved user holds one of
// allowed. It must run after RequireUser.
func (rv *Resolver) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				rv.onError(w, r, ErrUnauthenticated)
				return
			}
			if _, allowed := set[strings.ToLower(u.Role)]; !allowed {
				rv.log.Warn("role check failed",
					zap.String("user_id", u.ID.Hex()),
					zap.String("role", u.Role),
					zap.String("path", r.URL.Path))
				rv.onError(w, r, ErrRoleRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

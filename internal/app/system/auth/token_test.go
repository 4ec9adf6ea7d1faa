package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-for-session-tokens-0123456789"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, 0)
	id := primitive.NewObjectID().Hex()

	tok, err := codec.Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != id {
		t.Errorf("id: got %q, want %q", got, id)
	}
}

func TestTokenCodec_ThirtyDayExpiry(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, 0)
	tok, err := codec.Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var claims auth.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		t.Fatalf("ParseUnverified failed: %v", err)
	}
	lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if lifetime != 30*24*time.Hour {
		t.Errorf("lifetime: got %v, want 720h", lifetime)
	}
	if claims.RegisteredClaims.ID == "" {
		t.Error("expected a jti to be set")
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, -time.Hour)
	tok, err := codec.Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := codec.Decode(tok); !errors.Is(err, auth.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	tok, err := auth.NewTokenCodec("secret-a", 0).Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := auth.NewTokenCodec("secret-b", 0).Decode(tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, 0)
	tok, err := codec.Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.Decode(tampered); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_WrongAlgorithm(t *testing.T) {
	claims := auth.Claims{
		ID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := auth.NewTokenCodec(testSecret, 0).Decode(tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_MissingID(t *testing.T) {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := auth.NewTokenCodec(testSecret, 0).Decode(tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, 0)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := codec.Decode(tok); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Decode(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	timeouts.Reset()

	if got := timeouts.Ping(); got != timeouts.DefaultPing {
		t.Errorf("Ping: got %v, want %v", got, timeouts.DefaultPing)
	}
	if got := timeouts.Short(); got != timeouts.DefaultShort {
		t.Errorf("Short: got %v, want %v", got, timeouts.DefaultShort)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium: got %v, want %v", got, timeouts.DefaultMedium)
	}
	if got := timeouts.Long(); got != timeouts.DefaultLong {
		t.Errorf("Long: got %v, want %v", got, timeouts.DefaultLong)
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	timeouts.Reset()
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	cur := timeouts.Current()
	if cur.Short != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", cur.Short)
	}
	if cur.Medium != timeouts.DefaultMedium {
		t.Errorf("Medium should be unchanged, got %v", cur.Medium)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}

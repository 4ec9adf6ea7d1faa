// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// Bounds describes the default and maximum page size for one list endpoint.
type Bounds struct {
	Default int64
	Max     int64
}

var (
	// Owner bounds the caller's own catch list.
	Owner = Bounds{Default: 50, Max: 200}
	// Public bounds the cross-user catch feed.
	Public = Bounds{Default: 100, Max: 500}
	// Audit bounds the admin audit event list.
	Audit = Bounds{Default: 50, Max: 200}
)

// Window is a limit/skip pair ready for Find().SetLimit/SetSkip.
type Window struct {
	Limit int64
	Skip  int64
}

// Clamp bounds a requested limit and skip. A non-positive limit falls back
// to the default; a limit above the max is cut to the max; a negative skip
// becomes zero.
func (b Bounds) Clamp(limit, skip int64) Window {
	switch {
	case limit <= 0:
		limit = b.Default
	case limit > b.Max:
		limit = b.Max
	}
	if skip < 0 {
		skip = 0
	}
	return Window{Limit: limit, Skip: skip}
}

// Parse reads "limit" and "skip" from the query string and clamps them.
// Values that are not integers are treated as absent.
func (b Bounds) Parse(r *http.Request) Window {
	return b.Clamp(parseInt(query.Get(r, "limit")), parseInt(query.Get(r, "skip")))
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

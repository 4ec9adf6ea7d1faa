// internal/app/features/auditlog/list.go
package auditlog

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/fishnet/internal/app/store/audit"
	"github.com/dalemusser/fishnet/internal/app/system/paging"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

type listData struct {
	Total  int64         `json:"total"`
	Limit  int64         `json:"limit"`
	Skip   int64         `json:"skip"`
	Events []audit.Event `json:"events"`
}

// ServeList returns audit events, newest first.
// GET /admin/audit?category=&eventType=&userId=&start=YYYY-MM-DD&end=YYYY-MM-DD&limit=&skip=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad audit filter", err, "Invalid filter: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Error retrieving audit events")
		return
	}
	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "Error retrieving audit events")
		return
	}

	if events == nil {
		events = []audit.Event{}
	}
	respond.OK(w, "", listData{
		Total:  total,
		Limit:  filter.Limit,
		Skip:   filter.Offset,
		Events: events,
	})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	win := paging.Audit.Parse(r)
	f := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "eventType"),
		Limit:     win.Limit,
		Offset:    win.Skip,
	}

	if s := query.Get(r, "userId"); s != "" {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, errors.New("userId must be a 24-character hex id")
		}
		f.UserID = &oid
	}
	if s := query.Get(r, "start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, errors.New("start must be a YYYY-MM-DD date")
		}
		f.StartTime = &t
	}
	if s := query.Get(r, "end"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, errors.New("end must be a YYYY-MM-DD date")
		}
		// Inclusive of the whole end day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, nil
}

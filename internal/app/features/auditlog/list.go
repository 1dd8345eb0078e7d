// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/programhub/internal/app/store/audit"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type listResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
}

// ServeList handles GET /api/admin/audit. Supported filters: category,
// event_type, user_id, entity_id, operation_id and limit (1-500).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := audit.QueryFilter{
		Category:    strings.TrimSpace(query.Get(r, "category")),
		EventType:   strings.TrimSpace(query.Get(r, "event_type")),
		OperationID: strings.TrimSpace(query.Get(r, "operation_id")),
		Limit:       defaultLimit,
	}

	var err error
	if filter.UserID, err = optionalID(query.Get(r, "user_id")); err != nil {
		h.ErrLog.Write(w, r, "audit list: user_id", err)
		return
	}
	if filter.EntityID, err = optionalID(query.Get(r, "entity_id")); err != nil {
		h.ErrLog.Write(w, r, "audit list: entity_id", err)
		return
	}
	if s := strings.TrimSpace(query.Get(r, "limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			respond.Invalid(w, map[string]string{"limit": "Limit must be a number from 1 to 500."})
			return
		}
		filter.Limit = int64(n)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit list: query", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	respond.OK(w, listResponse{Events: events, Count: len(events)})
}

func optionalID(s string) (*primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := docstore.ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is where audit events live.
const Collection = "audit_events"

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
	CategoryLink  = "link"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLogout                   = "logout"
)

// Admin event types
const (
	EventEntityCreated = "entity_created"
	EventEntityUpdated = "entity_updated"
	EventEntityDeleted = "entity_deleted"
	EventCVUploaded    = "cv_uploaded"
)

// Link event types
const (
	EventCohortLinked       = "cohort_linked"
	EventCohortRelinked     = "cohort_relinked"
	EventLinkCompensated    = "link_compensated"
	EventLinkCompensateFail = "link_compensation_failed"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	// Event classification
	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`

	// Who
	UserID  *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`   // affected user
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"` // who performed the action

	// What
	EntityType  string              `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID    *primitive.ObjectID `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	OperationID string              `bson:"operation_id,omitempty" json:"operation_id,omitempty"`

	// Context
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter narrows audit queries. Zero fields are ignored.
type QueryFilter struct {
	UserID      *primitive.ObjectID
	EntityID    *primitive.ObjectID
	Category    string
	EventType   string
	OperationID string
	Limit       int64
}

// Store manages audit event records.
type Store struct {
	g docstore.Gateway
}

// New creates a new audit Store.
func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.ID = primitive.NilObjectID
	_, err := s.g.Create(ctx, Collection, event)
	return err
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	var filter docstore.Filter
	if f.UserID != nil {
		filter = append(filter, docstore.Eq("user_id", *f.UserID))
	}
	if f.EntityID != nil {
		filter = append(filter, docstore.Eq("entity_id", *f.EntityID))
	}
	if f.Category != "" {
		filter = append(filter, docstore.Eq("category", f.Category))
	}
	if f.EventType != "" {
		filter = append(filter, docstore.Eq("event_type", f.EventType))
	}
	if f.OperationID != "" {
		filter = append(filter, docstore.Eq("operation_id", f.OperationID))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var events []Event
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: filter,
		Sort:   []docstore.SortKey{{Field: "timestamp", Desc: true}},
		Limit:  limit,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetByUser retrieves recent audit events for a specific user.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{UserID: &userID, Limit: limit})
}

// GetByEntity retrieves recent audit events about one record.
func (s *Store) GetByEntity(ctx context.Context, entityID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{EntityID: &entityID, Limit: limit})
}

// GetRecent retrieves the most recent audit events.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

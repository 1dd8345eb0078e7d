// internal/domain/models/status.go
package models

// Entity status values shared by programs, cohorts, students, subjects and
// instructors. Programs only use active/inactive.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// User roles.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleViewer      = "viewer"
)

// ProgramStatuses lists the statuses a program may carry.
var ProgramStatuses = []string{StatusActive, StatusInactive}

// EntityStatuses lists the statuses cohorts and people may carry.
var EntityStatuses = []string{StatusActive, StatusInactive, StatusCompleted, StatusCancelled}

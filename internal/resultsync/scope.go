package resultsync

import (
	"github.com/google/uuid"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/port"
)

// Scope selects which results a synchronizer follows: one project, or all of
// them when ProjectID is nil.
type Scope struct {
	ProjectID *uuid.UUID
}

// AllProjects follows every result.
func AllProjects() Scope {
	return Scope{}
}

// ProjectScope follows the results of one project.
func ProjectScope(id uuid.UUID) Scope {
	return Scope{ProjectID: &id}
}

// Key identifies the scope inside a Hub.
func (s Scope) Key() string {
	if s.ProjectID == nil {
		return "all"
	}
	return s.ProjectID.String()
}

// Matches reports whether a pushed insert belongs to this scope. Events for
// other projects, and events without a project when a project is selected,
// are ignored.
func (s Scope) Matches(ev port.ChangeEvent) bool {
	if ev.Type != "" && ev.Type != domain.ChangeInsert {
		return false
	}
	if s.ProjectID == nil {
		return true
	}
	return ev.ProjectID != nil && *ev.ProjectID == *s.ProjectID
}

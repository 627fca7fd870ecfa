package domain

import (
	"fmt"
	"time"
)

// Repository is a snapshot of a starred repository as returned by GitHub
type Repository struct {
	ID          int64
	Owner       string
	Name        string
	FullName    string
	Description string // empty when the repository has none
	Language    string
	License     string
	Stars       int
	Forks       int
	OpenIssues  int
	Topics      []string
	UpdatedAt   time.Time
	PushedAt    *time.Time
	StarredAt   *time.Time
	HTMLURL     string

	// StarredOrder is the position of the repository in the starred list for
	// the fetch session that produced it. It is only comparable between
	// repositories fetched under the same sort.
	StarredOrder int
}

// Ref returns the owner/name pair that identifies the repository remotely
func (r Repository) Ref() RepoRef {
	return RepoRef{Owner: r.Owner, Name: r.Name}
}

// DisplayName returns the full name, falling back to owner/name
func (r Repository) DisplayName() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Ref().String()
}

// RepoRef addresses a repository by owner and name
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// StarredOrder computes the zero-based position of the item at index within page
func StarredOrder(page, perPage, index int) int {
	return (page-1)*perPage + index
}

// SortField selects the order GitHub returns starred repositories in
type SortField int

const (
	// SortPushed orders by last push (API value "updated")
	SortPushed SortField = iota
	// SortStarred orders by the time the star was added (API value "created")
	SortStarred
)

// SortFields lists the fields in display order
func SortFields() []SortField {
	return []SortField{SortStarred, SortPushed}
}

// Label returns the user-facing name of the field
func (f SortField) Label() string {
	switch f {
	case SortStarred:
		return "Starred"
	case SortPushed:
		return "Pushed"
	default:
		return "unknown"
	}
}

// APIValue returns the value of the sort query parameter
func (f SortField) APIValue() string {
	switch f {
	case SortStarred:
		return "created"
	case SortPushed:
		return "updated"
	default:
		return ""
	}
}

// ParseSortField maps a config or API value back to a field
func ParseSortField(s string) (SortField, bool) {
	switch s {
	case "starred", "created":
		return SortStarred, true
	case "pushed", "updated":
		return SortPushed, true
	}
	return SortPushed, false
}

// SortDirection is ascending or descending
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// Toggle returns the opposite direction
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Label returns an arrow for the direction
func (d SortDirection) Label() string {
	if d == SortDesc {
		return "↓"
	}
	return "↑"
}

// APIValue returns the value of the direction query parameter
func (d SortDirection) APIValue() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// ParseSortDirection maps "asc"/"desc" to a direction
func ParseSortDirection(s string) (SortDirection, bool) {
	switch s {
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	}
	return SortAsc, false
}

// Sort is the active sort configuration
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// WithField switches to field and resets the direction to ascending
func (s Sort) WithField(field SortField) Sort {
	return Sort{Field: field, Direction: SortAsc}
}

// Toggled flips the direction and keeps the field
func (s Sort) Toggled() Sort {
	return Sort{Field: s.Field, Direction: s.Direction.Toggle()}
}

func (s Sort) String() string {
	return s.Field.Label() + " " + s.Direction.Label()
}

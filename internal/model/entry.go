package model

import "github.com/google/uuid"

// Category classifies an entry.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryOvertime Category = "overtime"
	CategoryVacation Category = "vacation"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryWork, CategoryOvertime, CategoryVacation}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryOvertime, CategoryVacation:
		return true
	}
	return false
}

// Entry sources.
const (
	SourceManual  = "manual"
	SourceOutlook = "outlook"
)

// Entry represents a single logged work period.
type Entry struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Description string   `json:"description"`
	ProjectID   *string  `json:"projectId"`
	Category    Category `json:"category"`
	BreakTime   int      `json:"breakTime"`
	Location    string   `json:"location"`
	Notes       string   `json:"notes"`
	Hours       float64  `json:"hours"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	Source      string   `json:"source,omitempty"`
	ExternalID  string   `json:"externalId,omitempty"`
}

// InProject reports whether the entry references the given project.
func (e Entry) InProject(projectID string) bool {
	return e.ProjectID != nil && *e.ProjectID == projectID
}

// EntryForm holds the user-editable fields of an entry.
type EntryForm struct {
	Date        string
	StartTime   string
	EndTime     string
	Description string
	ProjectID   *string
	Category    Category
	BreakTime   int
	Location    string
	Notes       string
}

// Form returns the editable fields of e.
func (e Entry) Form() EntryForm {
	return EntryForm{
		Date:        e.Date,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		ProjectID:   e.ProjectID,
		Category:    e.Category,
		BreakTime:   e.BreakTime,
		Location:    e.Location,
		Notes:       e.Notes,
	}
}

// NewID returns a fresh random identifier for entries and projects.
func NewID() string {
	return uuid.New().String()
}

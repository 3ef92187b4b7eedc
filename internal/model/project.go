package model

// Project is a named grouping of entries. TotalHours and EntryCount are
// denormalised and recomputed whenever an entry referencing it changes.
type Project struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	TotalHours float64 `json:"totalHours"`
	EntryCount int     `json:"entryCount"`
	LastUsed   *int64  `json:"lastUsed"`
	CreatedAt  int64   `json:"createdAt"`
	UpdatedAt  int64   `json:"updatedAt"`
}

// ProjectColors is the palette offered when creating a project.
var ProjectColors = []string{
	"#EF4444",
	"#F97316",
	"#EAB308",
	"#22C55E",
	"#0EA5E9",
	"#8B5CF6",
}

// DefaultProjectColor is used when a project is created without a colour.
const DefaultProjectColor = "#EF4444"

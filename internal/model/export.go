package model

// DataVersion is written into exports and the version key.
const DataVersion = "1.0.0"

// ExportData is the JSON export envelope.
type ExportData struct {
	Entries    []Entry   `json:"entries"`
	Projects   []Project `json:"projects"`
	Settings   Settings  `json:"settings"`
	ExportDate string    `json:"exportDate"`
	Version    string    `json:"version"`
}

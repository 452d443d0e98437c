package model

import "time"

// ExportVersion is written into every export document.
const ExportVersion = "1.0"

// ExportDocument is a versioned snapshot of lists and tasks used for
// backup and transfer.
type ExportDocument struct {
	Version    string    `json:"version" yaml:"version"`
	ExportDate time.Time `json:"export_date" yaml:"export_date"`
	Tasks      []Task    `json:"tasks" yaml:"tasks"`
	Lists      []List    `json:"lists" yaml:"lists"`
}

package domain

import "time"

type DocumentStatus string

// StatusPending marks a registered document not yet delivered to its client.
const StatusPending DocumentStatus = "pending"

// Document is an accepted file as kept by the document registry.
type Document struct {
	ID               string         `json:"id"`
	ServerFilename   string         `json:"server_filename"`
	OriginalFilename string         `json:"original_filename"`
	CompanyID        string         `json:"company_id"`
	Category         Category       `json:"category"`
	Competence       string         `json:"competence"`
	DueDate          *time.Time     `json:"due_date,omitempty"`
	Status           DocumentStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

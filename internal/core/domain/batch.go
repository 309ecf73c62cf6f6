package domain

import (
	"path"
	"strings"
)

const (
	MediaTypePDF = "application/pdf"
	MediaTypeZIP = "application/zip"
)

// InputFile is one document handed to a batch, fully loaded in memory.
type InputFile struct {
	Name      string
	MediaType string
	Data      []byte
}

func (f InputFile) IsPDF() bool {
	return hasMediaType(f.MediaType, MediaTypePDF) || strings.EqualFold(path.Ext(f.Name), ".pdf")
}

func (f InputFile) IsZIP() bool {
	return hasMediaType(f.MediaType, MediaTypeZIP, "application/x-zip-compressed", "application/x-zip") ||
		strings.EqualFold(path.Ext(f.Name), ".zip")
}

func hasMediaType(mediaType string, candidates ...string) bool {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mediaType)), ";")
	base = strings.TrimSpace(base)
	for _, c := range candidates {
		if base == c {
			return true
		}
	}
	return false
}

// UploadReceipt is what the storage endpoint hands back for a stored file.
type UploadReceipt struct {
	ServerFilename string `json:"server_filename"`
}

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeFiltered Outcome = "filtered"
)

type FilterReason string

const (
	ReasonCategoryUnidentified FilterReason = "category unidentified"
	ReasonCompanyUnidentified  FilterReason = "company unidentified"
	ReasonCategoryNotSelected  FilterReason = "category not selected"
	ReasonCompanyNotSelected   FilterReason = "company not selected"
	ReasonUploadFailed         FilterReason = "upload failed"
	ReasonArchiveUnreadable    FilterReason = "archive unreadable"
)

// ProcessingResult is the immutable outcome of one file in a batch.
type ProcessingResult struct {
	FileName   string       `json:"file_name"`
	Category   Category     `json:"category,omitempty"`
	CompanyID  string       `json:"company_id,omitempty"`
	DueDate    string       `json:"due_date,omitempty"`
	Outcome    Outcome      `json:"outcome"`
	Reason     FilterReason `json:"reason,omitempty"`
	ServerName string       `json:"server_filename,omitempty"`
}

// AcceptedRecord is handed to the document registry for every stored file.
type AcceptedRecord struct {
	ID               string   `json:"id"`
	ServerFilename   string   `json:"server_filename"`
	OriginalFilename string   `json:"original_filename"`
	CompanyID        string   `json:"company_id"`
	CompanyName      string   `json:"company_name"`
	Category         Category `json:"category"`
	Competence       string   `json:"competence"`
	DueDate          string   `json:"due_date,omitempty"`
}

// BatchRequest carries everything a batch run needs. Companies and Rules are
// snapshots: the processor never mutates them.
type BatchRequest struct {
	Files      []InputFile
	Competence string
	Categories CategoryFilter
	Companies  CompanyFilter
	Roster     []Company
	Rules      ClassificationRules
}

type BatchResult struct {
	Total    int                `json:"total"`
	Accepted int                `json:"accepted"`
	Filtered int                `json:"filtered"`
	Results  []ProcessingResult `json:"results"`
	Records  []AcceptedRecord   `json:"accepted_records"`
	Errors   []string           `json:"errors,omitempty"`
}

// Add accumulates one file outcome.
func (r *BatchResult) Add(result ProcessingResult) {
	r.Total++
	switch result.Outcome {
	case OutcomeAccepted:
		r.Accepted++
	default:
		r.Filtered++
	}
	r.Results = append(r.Results, result)
}

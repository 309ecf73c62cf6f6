package domain

import "slices"

type CompanyType string

const (
	CompanyTypeCNPJ CompanyType = "CNPJ"
	CompanyTypeCPF  CompanyType = "CPF"
	CompanyTypeMEI  CompanyType = "MEI"
)

// Company is a client of the accounting office as read from the roster.
// DocNumber keeps whatever punctuation the registry stored.
type Company struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	DocNumber string      `json:"doc_number"`
	Type      CompanyType `json:"type"`
}

// CompanyFilter restricts a batch to a set of company ids. Empty means all.
type CompanyFilter []string

func (f CompanyFilter) Allows(companyID string) bool {
	return len(f) == 0 || slices.Contains(f, companyID)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// CompanyRepository reads the client roster. Rows are returned in id order so
// that the first-match rule of company identification is stable.
type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, doc_number, type
FROM companies
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		var company domain.Company
		var companyType string
		if err := rows.Scan(&company.ID, &company.Name, &company.DocNumber, &companyType); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		company.Type = domain.CompanyType(companyType)
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

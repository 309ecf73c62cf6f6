package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

const (
	// cnpjRootLength is the branch-independent prefix of a CNPJ.
	cnpjRootLength  = 8
	minNameLength   = 3
	minBigramLength = 6
)

// corporateTokens are legal-form words that carry no identifying value.
var corporateTokens = map[string]struct{}{
	"ltda":     {},
	"s.a":      {},
	"s/a":      {},
	"me":       {},
	"epp":      {},
	"eireli":   {},
	"limitada": {},
	"sa":       {},
	"cpf":      {},
	"cnpj":     {},
	"-":        {},
}

// IdentifyCompany finds the company a document belongs to, first by tax id
// and then by name. The first company in roster order that matches wins.
func IdentifyCompany(rawText string, companies []domain.Company) (domain.Company, bool) {
	if company, ok := matchByTaxID(rawText, companies); ok {
		return company, true
	}
	return matchByName(rawText, companies)
}

func matchByTaxID(rawText string, companies []domain.Company) (domain.Company, bool) {
	digits := textnorm.Digits(rawText)
	if len(digits) < cnpjRootLength {
		return domain.Company{}, false
	}
	for _, company := range companies {
		id := textnorm.Digits(company.DocNumber)
		if len(id) < cnpjRootLength {
			continue
		}
		if strings.Contains(digits, id) || strings.Contains(digits, id[:cnpjRootLength]) {
			return company, true
		}
	}
	return domain.Company{}, false
}

func matchByName(rawText string, companies []domain.Company) (domain.Company, bool) {
	text := textnorm.Normalize(rawText)
	if text == "" {
		return domain.Company{}, false
	}
	for _, company := range companies {
		name := CleanCompanyName(company.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			continue
		}
		if strings.Contains(text, name) {
			return company, true
		}
		parts := strings.Split(name, " ")
		if len(parts) < 2 {
			continue
		}
		bigram := parts[0] + " " + parts[1]
		if utf8.RuneCountInString(bigram) >= minBigramLength && strings.Contains(text, bigram) {
			return company, true
		}
	}
	return domain.Company{}, false
}

// CleanCompanyName normalizes a registered name and drops legal-form tokens,
// so "Comercial ABC Ltda." becomes "comercial abc". Kept words are left as
// written so they line up with the normalized document text.
func CleanCompanyName(name string) string {
	fields := strings.Fields(textnorm.Fold(name))
	kept := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		token := corporateToken(fields[i])
		// "S. A." split by a space
		if token == "s" && i+1 < len(fields) && corporateToken(fields[i+1]) == "a" {
			i++
			continue
		}
		if _, generic := corporateTokens[token]; generic {
			continue
		}
		if _, generic := corporateTokens[fields[i]]; generic || token == "" {
			continue
		}
		kept = append(kept, fields[i])
	}
	return strings.Join(kept, " ")
}

func corporateToken(field string) string {
	return strings.TrimRight(field, ".,;")
}

package classify

import (
	"testing"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

func testKeywords() domain.KeywordMap {
	return domain.KeywordMap{
		"FGTS":             {"fgts", "fundo de garantia"},
		"INSS":             {"inss", "previdencia social"},
		"Simples Nacional": {"documento de arrecadacao do simples", "das simples"},
		"Honorários":       {"honorarios contabeis"},
	}
}

func TestIdentifyCategorySingleMatch(t *testing.T) {
	text := textnorm.Normalize("Guia do FGTS - Fundo de Garantia do Tempo de Serviço")
	got, ok := IdentifyCategory(text, testKeywords(), nil)
	if !ok || got != "FGTS" {
		t.Fatalf("expected FGTS, got %q ok=%v", got, ok)
	}
}

func TestIdentifyCategoryMatchesAccentedKeyword(t *testing.T) {
	keywords := domain.KeywordMap{"Pró-Labore": {"Pró-Labore"}}
	got, ok := IdentifyCategory(textnorm.Normalize("RECIBO DE PRO-LABORE"), keywords, nil)
	if !ok || got != "Pró-Labore" {
		t.Fatalf("expected Pró-Labore, got %q ok=%v", got, ok)
	}
}

func TestIdentifyCategoryNoMatch(t *testing.T) {
	_, ok := IdentifyCategory(textnorm.Normalize("nota fiscal de servico"), testKeywords(), nil)
	if ok {
		t.Fatalf("expected no category")
	}
}

func TestIdentifyCategoryIgnoresShortKeywords(t *testing.T) {
	keywords := domain.KeywordMap{
		"DARF": {"da", "x"},
	}
	if got, ok := IdentifyCategory("da darf x", keywords, nil); ok {
		t.Fatalf("short keywords must not match, got %q", got)
	}
	keywords["DARF"] = append(keywords["DARF"], "darf")
	if got, ok := IdentifyCategory("da darf x", keywords, nil); !ok || got != "DARF" {
		t.Fatalf("expected DARF once a long keyword is configured, got %q", got)
	}
}

func TestIdentifyCategoryUsesPriorityOrder(t *testing.T) {
	text := textnorm.Normalize("Recolhimento FGTS e INSS da competência")
	priority := domain.PriorityCategories{"Simples Nacional", "INSS", "FGTS"}
	got, ok := IdentifyCategory(text, testKeywords(), priority)
	if !ok || got != "INSS" {
		t.Fatalf("expected INSS by priority, got %q ok=%v", got, ok)
	}
}

func TestIdentifyCategoryAmbiguousWithoutPriorityReturnsNone(t *testing.T) {
	text := textnorm.Normalize("Recolhimento FGTS e INSS")
	for i := 0; i < 20; i++ {
		if got, ok := IdentifyCategory(text, testKeywords(), domain.PriorityCategories{"Honorários"}); ok {
			t.Fatalf("ambiguous text must not classify, got %q", got)
		}
	}
}

func TestIdentifyCategoryEmptyText(t *testing.T) {
	if _, ok := IdentifyCategory("", testKeywords(), nil); ok {
		t.Fatalf("expected no category for empty text")
	}
}

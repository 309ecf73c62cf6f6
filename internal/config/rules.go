package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/accounting-doc-router/internal/core/classify"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/textnorm"
)

//go:embed rules.default.yaml
var defaultRules []byte

type rulesFile struct {
	Categories []categoryEntry  `yaml:"categories"`
	Priority   []string         `yaml:"priority"`
	Holidays   []domain.Holiday `yaml:"holidays"`
}

type categoryEntry struct {
	Name     string              `yaml:"name"`
	Keywords []string            `yaml:"keywords"`
	DueDate  *domain.DueDateRule `yaml:"due_date"`
}

// LoadRules reads the classification rules at path, or the embedded defaults
// when path is empty.
func LoadRules(path string) (domain.ClassificationRules, error) {
	if strings.TrimSpace(path) == "" {
		return ParseRules(defaultRules)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ClassificationRules{}, fmt.Errorf("read rules file: %w", err)
	}
	rules, err := ParseRules(raw)
	if err != nil {
		return domain.ClassificationRules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes and validates a YAML rules document.
func ParseRules(raw []byte) (domain.ClassificationRules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.ClassificationRules{}, domain.WrapError(domain.ErrInvalidInput, "decode rules", err)
	}

	rules := domain.ClassificationRules{
		Keywords: make(domain.KeywordMap, len(file.Categories)),
		DueDates: make(map[domain.Category]domain.DueDateRule, len(file.Categories)),
		Holidays: file.Holidays,
	}

	var problems []error
	for i, entry := range file.Categories {
		name := domain.Category(strings.TrimSpace(entry.Name))
		if name == "" {
			problems = append(problems, fmt.Errorf("category #%d has no name", i+1))
			continue
		}
		if _, dup := rules.Keywords[name]; dup {
			problems = append(problems, fmt.Errorf("category %q is declared twice", name))
			continue
		}
		if len(entry.Keywords) == 0 {
			problems = append(problems, fmt.Errorf("category %q has no keywords", name))
		}
		for _, keyword := range entry.Keywords {
			if utf8.RuneCountInString(textnorm.Normalize(keyword)) < classify.MinKeywordLength {
				problems = append(problems, fmt.Errorf("category %q: keyword %q is shorter than %d characters", name, keyword, classify.MinKeywordLength))
			}
		}
		rules.Keywords[name] = entry.Keywords
		if entry.DueDate != nil {
			if err := validateRule(*entry.DueDate); err != nil {
				problems = append(problems, fmt.Errorf("category %q: %w", name, err))
			}
			rules.DueDates[name] = *entry.DueDate
		}
	}

	for _, p := range file.Priority {
		category := domain.Category(strings.TrimSpace(p))
		if _, ok := rules.Keywords[category]; !ok {
			problems = append(problems, fmt.Errorf("priority names unknown category %q", p))
			continue
		}
		rules.Priority = append(rules.Priority, category)
	}

	for _, h := range file.Holidays {
		if h.Month < time.January || h.Month > time.December || h.Day < 1 || h.Day > daysIn(h.Month) {
			problems = append(problems, fmt.Errorf("holiday %02d-%02d is not a calendar date", int(h.Month), h.Day))
		}
	}

	if err := errors.Join(problems...); err != nil {
		return domain.ClassificationRules{}, domain.WrapError(domain.ErrInvalidInput, "validate rules", err)
	}
	return rules, nil
}

func validateRule(rule domain.DueDateRule) error {
	switch rule.Kind {
	case domain.RuleFixedDay:
		if rule.Day < 1 || rule.Day > 31 {
			return fmt.Errorf("fixed_day needs day in 1..31, got %d", rule.Day)
		}
	case domain.RuleNthBusinessDay:
		if rule.N < 1 || rule.N > 23 {
			return fmt.Errorf("nth_business_day needs n in 1..23, got %d", rule.N)
		}
	case domain.RuleAdjustedDay:
		if rule.Day < 1 || rule.Day > 31 {
			return fmt.Errorf("adjusted_day needs day in 1..31, got %d", rule.Day)
		}
		if rule.Direction != domain.Forward && rule.Direction != domain.Backward {
			return fmt.Errorf("adjusted_day needs direction forward or backward, got %q", rule.Direction)
		}
	case domain.RuleLastBusinessDay:
	default:
		return fmt.Errorf("unknown due date rule kind %q", rule.Kind)
	}
	return nil
}

// daysIn uses a leap year so 29 February is accepted.
func daysIn(month time.Month) int {
	return time.Date(2024, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

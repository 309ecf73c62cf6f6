package duedate

import (
	"fmt"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
)

// DefaultBindings maps the accounting categories shipped with the service to
// their due-date rules. They are defaults, not law: deployments override them
// from the rules file.
func DefaultBindings() map[domain.Category]domain.DueDateRule {
	return map[domain.Category]domain.DueDateRule{
		"Folha de Pagamento": domain.NthBusinessDay(5),
		"Pró-Labore":         domain.NthBusinessDay(5),
		"Férias":             domain.NthBusinessDay(5),
		"FGTS":               domain.AdjustedDay(20, domain.Backward),
		"INSS":               domain.AdjustedDay(20, domain.Backward),
		"Simples Nacional":   domain.AdjustedDay(20, domain.Forward),
		"Parcelamento":       domain.LastBusinessDay(),
		"Honorários":         domain.AdjustedDay(10, domain.Forward),
	}
}

// Calculator evaluates due-date rules. It holds no mutable state; one value
// may serve any number of competences.
type Calculator struct {
	calendar Calendar
	bindings map[domain.Category]domain.DueDateRule
}

func NewCalculator(holidays []domain.Holiday, bindings map[domain.Category]domain.DueDateRule) *Calculator {
	copied := make(map[domain.Category]domain.DueDateRule, len(bindings))
	for category, rule := range bindings {
		copied[category] = rule
	}
	return &Calculator{
		calendar: NewCalendar(holidays),
		bindings: copied,
	}
}

// NewCalculatorFromRules builds a calculator from a classification snapshot.
func NewCalculatorFromRules(rules domain.ClassificationRules) *Calculator {
	return NewCalculator(rules.Holidays, rules.DueDates)
}

// Evaluate applies rule to the month following competence.
func (c *Calculator) Evaluate(rule domain.DueDateRule, competence domain.Competence) (time.Time, error) {
	target := competence.Next()
	switch rule.Kind {
	case domain.RuleFixedDay:
		return clampDay(target, rule.Day)
	case domain.RuleNthBusinessDay:
		date, ok := c.calendar.NthBusinessDay(target, rule.N)
		if !ok {
			return time.Time{}, domain.WrapError(domain.ErrInvalidInput, "evaluate due date",
				fmt.Errorf("%s has fewer than %d business days", target, rule.N))
		}
		return date, nil
	case domain.RuleAdjustedDay:
		date, err := clampDay(target, rule.Day)
		if err != nil {
			return time.Time{}, err
		}
		return c.calendar.Adjust(date, rule.Direction), nil
	case domain.RuleLastBusinessDay:
		return c.calendar.LastBusinessDay(target), nil
	default:
		return time.Time{}, domain.WrapError(domain.ErrInvalidInput, "evaluate due date",
			fmt.Errorf("unknown rule kind %q", rule.Kind))
	}
}

// DueDate computes the due date of one category, if the category is bound.
func (c *Calculator) DueDate(category domain.Category, competence domain.Competence) (time.Time, bool) {
	rule, ok := c.bindings[category]
	if !ok {
		return time.Time{}, false
	}
	date, err := c.Evaluate(rule, competence)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// ComputeDueDates returns the due date of every bound category for the
// competence given as "MM/YYYY". A malformed competence yields an empty map.
func (c *Calculator) ComputeDueDates(competence string) map[domain.Category]string {
	out := make(map[domain.Category]string, len(c.bindings))
	parsed, err := domain.ParseCompetence(competence)
	if err != nil {
		return out
	}
	for category := range c.bindings {
		if date, ok := c.DueDate(category, parsed); ok {
			out[category] = date.Format(domain.DateLayout)
		}
	}
	return out
}

func clampDay(period domain.Competence, day int) (time.Time, error) {
	if day < 1 {
		return time.Time{}, domain.WrapError(domain.ErrInvalidInput, "evaluate due date",
			fmt.Errorf("day %d out of range", day))
	}
	last := period.LastDay()
	if day > last.Day() {
		return last, nil
	}
	return time.Date(period.Year, period.Month, day, 0, 0, 0, 0, time.UTC), nil
}

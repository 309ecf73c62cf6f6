package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var competencePattern = regexp.MustCompile(`^(\d{2})/(\d{4})$`)

// Competence is the accounting period a document refers to.
type Competence struct {
	Month time.Month
	Year  int
}

// ParseCompetence reads the "MM/YYYY" form used at the boundary.
func ParseCompetence(raw string) (Competence, error) {
	m := competencePattern.FindStringSubmatch(raw)
	if m == nil {
		return Competence{}, WrapError(ErrInvalidInput, "parse competence", fmt.Errorf("expected MM/YYYY, got %q", raw))
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return Competence{}, WrapError(ErrInvalidInput, "parse competence", errors.New("month out of range"))
	}
	return Competence{Month: time.Month(month), Year: year}, nil
}

func (c Competence) String() string {
	return fmt.Sprintf("%02d/%04d", int(c.Month), c.Year)
}

// Next returns the period in which obligations for c are due.
func (c Competence) Next() Competence {
	if c.Month == time.December {
		return Competence{Month: time.January, Year: c.Year + 1}
	}
	return Competence{Month: c.Month + 1, Year: c.Year}
}

// FirstDay is midnight UTC of the first day of the period.
func (c Competence) FirstDay() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay is midnight UTC of the last calendar day of the period.
func (c Competence) LastDay() time.Time {
	return c.FirstDay().AddDate(0, 1, -1)
}

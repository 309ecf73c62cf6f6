package domain

import "time"

type RuleKind string

const (
	RuleFixedDay        RuleKind = "fixed_day"
	RuleNthBusinessDay  RuleKind = "nth_business_day"
	RuleAdjustedDay     RuleKind = "adjusted_day"
	RuleLastBusinessDay RuleKind = "last_business_day"
)

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// DueDateRule is a tagged variant: Kind selects which of Day, N and
// Direction are meaningful.
type DueDateRule struct {
	Kind      RuleKind  `json:"kind" yaml:"kind"`
	Day       int       `json:"day,omitempty" yaml:"day,omitempty"`
	N         int       `json:"n,omitempty" yaml:"n,omitempty"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

func FixedDay(day int) DueDateRule {
	return DueDateRule{Kind: RuleFixedDay, Day: day}
}

func NthBusinessDay(n int) DueDateRule {
	return DueDateRule{Kind: RuleNthBusinessDay, N: n}
}

func AdjustedDay(day int, direction Direction) DueDateRule {
	return DueDateRule{Kind: RuleAdjustedDay, Day: day, Direction: direction}
}

func LastBusinessDay() DueDateRule {
	return DueDateRule{Kind: RuleLastBusinessDay}
}

// Holiday is a fixed national holiday repeating every year.
type Holiday struct {
	Month time.Month `json:"month" yaml:"month"`
	Day   int        `json:"day" yaml:"day"`
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
}

// DateLayout is the format of due dates handed to callers.
const DateLayout = "2006-01-02"

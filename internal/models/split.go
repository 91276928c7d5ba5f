package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitMethod is the strategy used to divide an expense among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitExact      SplitMethod = "exact"
	SplitPercentage SplitMethod = "percentage"
)

// SplitMethods lists the supported methods in display order.
var SplitMethods = []SplitMethod{SplitEqual, SplitExact, SplitPercentage}

// ParseSplitMethod normalizes a method tag. Unknown tags return an error.
func ParseSplitMethod(s string) (SplitMethod, error) {
	m := SplitMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		names := make([]string, len(SplitMethods))
		for i, sm := range SplitMethods {
			names[i] = sm.String()
		}
		return "", fmt.Errorf("unknown split method %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m SplitMethod) Valid() bool {
	return slices.Contains(SplitMethods, m)
}

func (m SplitMethod) String() string { return string(m) }

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID references the owning expense. A split never outlives it.
	ExpenseID string

	// UserID is the participant charged this share.
	UserID string

	// Amount is the derived share, rounded to 2 decimal places.
	Amount decimal.Decimal

	// Percentage is the caller-supplied input for percentage splits.
	// It is informational only; Amount is authoritative.
	Percentage decimal.NullDecimal
}

package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbook/internal/apperr"
	"github.com/mmynk/splitbook/internal/models"
)

// MaxAmount is the largest expense total accepted. It is the largest value
// that fits a NUMERIC(14,2) column.
var MaxAmount = decimal.RequireFromString("999999999999.99")

const (
	// amountDigits is the number of integer digits MaxAmount has.
	amountDigits = 12
	// inputPlaces bounds the decimal places of exact amounts and percentages.
	// Totals are limited to whole cents.
	inputPlaces = 6
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

// Participant is one entry of the split instructions for an expense.
// Amount is read for exact splits, Percentage for percentage splits.
type Participant struct {
	UserID     string
	Amount     decimal.NullDecimal
	Percentage decimal.NullDecimal
}

// Share is the calculated share for one participant.
type Share struct {
	UserID     string
	Amount     decimal.Decimal
	Percentage decimal.NullDecimal
}

// Option tunes ComputeSplits.
type Option func(*options)

type options struct {
	distributeRemainder bool
}

// WithRemainderDistribution makes equal splits add up to the total.
// The leftover produced by rounding each share is handed out one cent at a
// time to the first participants in input order. Without this option the
// shares are round(total/n, 2) and may drift from the total by up to n*0.005.
func WithRemainderDistribution() Option {
	return func(o *options) { o.distributeRemainder = true }
}

// ComputeSplits validates the split instructions against amount and returns
// one share per participant, in input order, rounded to 2 decimal places.
// All failures are *apperr.ValidationError.
func ComputeSplits(amount decimal.Decimal, method models.SplitMethod, participants []Participant, opts ...Option) ([]Share, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !method.Valid() {
		return nil, apperr.Validation("split_method", "unknown split method %q", method)
	}
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount", "must be positive")
	}
	if !fits(amount, amountDigits, 2) {
		return nil, apperr.Validation("amount", "must be at most %s with no more than 2 decimal places", MaxAmount)
	}
	if len(participants) == 0 {
		return nil, apperr.Validation("splits", "at least one participant is required")
	}
	for i, p := range participants {
		if p.UserID == "" {
			return nil, apperr.Validation("splits", "participant %d has no user id", i+1)
		}
	}

	switch method {
	case models.SplitExact:
		return splitExact(amount, participants)
	case models.SplitPercentage:
		return splitPercentage(amount, participants)
	default:
		return splitEqual(amount, participants, o.distributeRemainder), nil
	}
}

// splitEqual gives everyone round(amount/n, 2).
func splitEqual(amount decimal.Decimal, participants []Participant, distribute bool) []Share {
	n := decimal.NewFromInt(int64(len(participants)))
	each := amount.Div(n).Round(2)

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Amount: each}
	}
	if !distribute {
		return shares
	}

	residual := amount.Sub(each.Mul(n))
	step := cent
	if residual.IsNegative() {
		step = cent.Neg()
	}
	k := int(residual.Abs().Div(cent).IntPart())
	for i := 0; i < k && i < len(shares); i++ {
		shares[i].Amount = shares[i].Amount.Add(step)
	}
	return shares
}

// splitExact requires the supplied amounts to add up to amount exactly.
func splitExact(amount decimal.Decimal, participants []Participant) ([]Share, error) {
	sum := decimal.Zero
	for i, p := range participants {
		if !p.Amount.Valid {
			return nil, apperr.Validation("splits", "participant %d (%s) needs an amount for an exact split", i+1, p.UserID)
		}
		if p.Amount.Decimal.IsNegative() || !fits(p.Amount.Decimal, amountDigits, inputPlaces) {
			return nil, apperr.Validation("splits", "participant %d (%s) amount must be non-negative with at most %d decimal places and %d integer digits", i+1, p.UserID, inputPlaces, amountDigits)
		}
		sum = sum.Add(p.Amount.Decimal)
	}
	if !sum.Equal(amount) {
		return nil, apperr.Validation("splits", "sum of split amounts %s does not equal the total amount %s", sum, amount)
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Amount: p.Amount.Decimal.Round(2)}
	}
	return shares, nil
}

// splitPercentage requires the percentages to add up to exactly 100.
func splitPercentage(amount decimal.Decimal, participants []Participant) ([]Share, error) {
	sum := decimal.Zero
	for i, p := range participants {
		if !p.Percentage.Valid {
			return nil, apperr.Validation("splits", "participant %d (%s) needs a percentage for a percentage split", i+1, p.UserID)
		}
		if p.Percentage.Decimal.IsNegative() || !fits(p.Percentage.Decimal, 3, inputPlaces) {
			return nil, apperr.Validation("splits", "participant %d (%s) percentage must be non-negative with at most %d decimal places", i+1, p.UserID, inputPlaces)
		}
		sum = sum.Add(p.Percentage.Decimal)
	}
	if !sum.Equal(hundred) {
		return nil, apperr.Validation("splits", "sum of percentages %s does not equal 100", sum)
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     amount.Mul(p.Percentage.Decimal).Div(hundred).Round(2),
			Percentage: p.Percentage,
		}
	}
	return shares, nil
}

// fits reports whether the non-negative v has at most intDigits integer digits
// and at most places significant decimal places. Both checks look at the
// mantissa and exponent first so huge exponents are rejected without being
// expanded.
func fits(v decimal.Decimal, intDigits, places int) bool {
	if v.IsZero() {
		return true
	}
	exp := int64(v.Exponent())
	digits := int64(len(v.Coefficient().String()))
	if digits+exp > int64(intDigits) {
		return false
	}
	if exp >= -int64(places) {
		return true
	}
	// The mantissa has fewer than digits trailing zeros.
	if -exp-int64(places) >= digits {
		return false
	}
	return v.Equal(v.Truncate(int32(places)))
}

package kernel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"shipping/internal/pkg/errs"
)

// maxMoneyCents bounds amounts to what DECIMAL(10,2) columns can hold.
const maxMoneyCents int64 = 99_999_999_99

// Money is a non-negative amount kept in minor units (cents) so that fees and
// collection prices never suffer from floating point drift.
type Money struct {
	cents int64
}

// NewMoneyFromCents validates and wraps an amount in minor units.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 || cents > maxMoneyCents {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", cents, 0, maxMoneyCents)
	}
	return Money{cents: cents}, nil
}

// MoneyFromFloat rounds a non-negative decimal amount to two places.
func MoneyFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not a finite number", amount))
	}
	if amount < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount, 0, float64(maxMoneyCents)/100)
	}
	return NewMoneyFromCents(int64(math.Round(amount * 100)))
}

// ParseMoney parses amounts such as "10", "10.5" or " 12.25 " coming from form fields.
//
// Example:
//
//	fee, err := kernel.ParseMoney(form.Value("shippingFee"))
//	if err != nil {
//	    return err // ValueIsInvalid or ValueIsOutOfRange
//	}
func ParseMoney(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, errs.NewValueIsRequiredError("amount")
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return MoneyFromFloat(amount)
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Float returns the amount in major units, for JSON responses.
func (m Money) Float() float64 {
	return float64(m.cents) / 100
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsEqual compares two amounts.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

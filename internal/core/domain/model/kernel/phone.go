package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"shipping/internal/pkg/errs"
)

const (
	minPhoneDigits = 5
	maxPhoneDigits = 20
)

// Phone is a normalized phone number: an optional leading '+' followed by digits.
// Spaces, dashes and parentheses are dropped on construction.
type Phone struct {
	value string
}

// NewPhone normalizes and validates raw input.
func NewPhone(raw string) (Phone, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}

	var b strings.Builder
	digits := 0
	for i, r := range trimmed {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone", fmt.Errorf("unexpected character %q", r))
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return Phone{}, errs.NewValueIsOutOfRangeError("phone digits", digits, minPhoneDigits, maxPhoneDigits)
	}

	return Phone{value: b.String()}, nil
}

// String returns the normalized number.
func (p Phone) String() string {
	return p.value
}

// IsEqual compares two phones.
func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}

// Validate rejects the zero value.
func (p Phone) Validate() error {
	if p.value == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	return nil
}

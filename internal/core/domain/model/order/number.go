package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"shipping/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-F]{6}$`)

// NewNumber builds a human readable order number: "ORD-" + base36 unix millis +
// "-" + 6 random hex digits, upper-cased. Uniqueness is finally enforced by storage.
func NewNumber(now time.Time) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	return strings.ToUpper(fmt.Sprintf("ORD-%s-%s",
		strconv.FormatInt(now.UnixMilli(), 36),
		hex.EncodeToString(suffix),
	))
}

// ValidateNumber checks the ORD-XXXX-XXXXXX shape.
func ValidateNumber(number string) error {
	if !numberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q has an unexpected format", number))
	}
	return nil
}

package order

import (
	"fmt"
	"strings"

	"shipping/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements the state machine that every ordinary (non-override)
// transition must pass through.
//
// State transitions:
//
//	Pending ──> Submitted ──> Confirmed ──┬──> Delivered
//	   │            │  ▲          │       └──> Returned
//	   │            └──┘          │
//	   │       (reassignment)     │
//	   └────────────┴─────────────┴──> Cancelled
//
// Delivered, Cancelled and Returned are terminal: only an admin override
// moves an order out of them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. The order waits for an admin to assign
	// a delivery user and a shipping fee.
	Pending

	// Submitted indicates the order was handed to a delivery user.
	Submitted

	// Confirmed indicates the assigned delivery user accepted the order.
	Confirmed

	// Delivered is terminal. actualDeliveryDate is recorded on the first entry.
	Delivered

	// Cancelled is terminal. An optional reason is kept in the delivery notes.
	Cancelled

	// Returned is terminal and always carries delivery notes.
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Submitted: "submitted",
		Confirmed: "confirmed",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Returned:  "returned",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Submitted: "submitted",
		Confirmed: "confirmed",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Returned:  "returned",
	}
}

// AllStatuses lists the canonical statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Submitted, Confirmed, Delivered, Cancelled, Returned}
}

// ParseStatus maps the wire/persisted name onto a Status.
//
// Matching is case-insensitive and ignores surrounding whitespace.
// Anything outside the canonical set, including historical names such as
// "picked_up" or "in_transit", is rejected with a ValueIsInvalid error.
//
// Example:
//
//	status, err := order.ParseStatus(req.Status)
//	if err != nil {
//	    return err // 400
//	}
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, str := range getValidStatusStrings() {
		if str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not one of pending, submitted, confirmed, delivered, cancelled, returned", raw),
	)
}

// Validate checks if the Status value is one of the canonical statuses.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case name used on the wire and in storage.
// It is safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether s is Delivered, Cancelled or Returned.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// Assign transitions the status to Submitted.
//
// Valid transitions:
//   - Pending -> Submitted (initial assignment)
//   - Submitted -> Submitted (reassignment to a different delivery user)
//
// Once the delivery user confirmed the order it can no longer be reassigned
// through the ordinary path; an admin override is required.
func (s Status) Assign() (Status, error) {
	if s != Pending && s != Submitted {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return Submitted, nil
}

// Confirm transitions Submitted -> Confirmed.
// Confirming an already confirmed order is accepted and returns Confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Submitted && s != Confirmed {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to confirm", s.String()),
		)
	}
	return Confirmed, nil
}

// Deliver transitions Confirmed -> Delivered.
// Delivering an already delivered order is accepted and returns Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Confirmed && s != Delivered {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}

// Return transitions Confirmed -> Returned.
// Returning an already returned order is accepted and returns Returned.
func (s Status) Return() (Status, error) {
	if s != Confirmed && s != Returned {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to return", s.String()),
		)
	}
	return Returned, nil
}

// Cancel transitions Pending, Submitted or Confirmed -> Cancelled.
//
// Invalid transitions:
//   - Delivered, Cancelled, Returned -> Cancelled (terminal)
//   - Unknown -> Cancelled
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != Submitted && s != Confirmed {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
	return Cancelled, nil
}

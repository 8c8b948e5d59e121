// Package ledger error taxonomy for submission classification.
//
// The dispatcher never inspects HTTP status codes or transport details; it
// classifies purely on these types via errors.Is / errors.As. This keeps the
// engine independent of any particular ledger service implementation and is
// the single place where all rejection categories are enumerated.
package ledger

import (
	"errors"
	"fmt"
)

// ErrTokenExpired is returned when the service rejects a submission because
// its authorization token's validity window has elapsed. The service may have
// admitted the submission before noticing staleness, so callers treat this as
// possibly-accepted.
var ErrTokenExpired = errors.New("authorization token expired")

// ErrDuplicateSubmission is returned when the service already holds a receipt
// for the identical payload. Callers treat this as accepted: the earlier
// submission is the one being confirmed.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// PreflightError is a structural, service-side rejection issued before
// admission: malformed framing, oversize payload, compute budget exceeded.
// Terminal for every operation in the batch; resubmitting the same payload
// cannot succeed.
type PreflightError struct {
	Detail string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight rejected: %s", e.Detail)
}

// TransportError is a local or network failure at submit or poll time, or an
// unclassifiable service response. Terminal at submit time for the batch's
// operations; at poll time it only marks receipts the service explicitly
// reports as failed.
type TransportError struct {
	Detail string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s", e.Detail)
}

package service

import (
	"fmt"

	"notaryflow/internal/model"
)

// ErrorKind classifies failures so callers know whether retrying can help.
type ErrorKind string

const (
	// KindPrecondition: the request cannot succeed until its precondition
	// changes; never retried automatically.
	KindPrecondition ErrorKind = "precondition"
	// KindConcurrency: another writer won the race; re-read and retry.
	KindConcurrency ErrorKind = "concurrency"
	// KindData: the mutation would corrupt the ledger; rejected outright.
	KindData ErrorKind = "data"
	// KindNotFound: the referenced entity does not exist.
	KindNotFound ErrorKind = "not_found"
)

// DomainError is the structured failure every core operation returns. It
// carries a stable machine code plus the document's current authoritative
// status when one is known, so callers can decide to retry, re-sync, or
// surface a terminal message. No error is a bare string.
type DomainError struct {
	Code    string
	Kind    ErrorKind
	Message string

	// CurrentStatus is the document's status at the time of failure;
	// empty when the failure precedes any document (e.g. Submit).
	CurrentStatus model.RequestStatus

	// From/To are set on transition failures.
	From model.RequestStatus
	To   model.RequestStatus
}

func (e *DomainError) Error() string {
	if e.From != "" || e.To != "" {
		return fmt.Sprintf("%s: %s (%s -> %s)", e.Code, e.Message, e.From, e.To)
	}
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%s: %s (status %s)", e.Code, e.Message, e.CurrentStatus)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so enriched copies still satisfy errors.Is against the
// package sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// withStatus returns a copy carrying the document's current status.
func (e *DomainError) withStatus(s model.RequestStatus) *DomainError {
	out := *e
	out.CurrentStatus = s
	return &out
}

// withTransition returns a copy carrying the rejected edge.
func (e *DomainError) withTransition(from, to model.RequestStatus) *DomainError {
	out := *e
	out.CurrentStatus = from
	out.From = from
	out.To = to
	return &out
}

var (
	ErrKYCNotApproved = &DomainError{
		Code: "KYC_NOT_APPROVED", Kind: KindPrecondition,
		Message: "submitter is not KYC approved",
	}
	ErrInvalidTransition = &DomainError{
		Code: "INVALID_TRANSITION", Kind: KindPrecondition,
		Message: "status transition is not allowed",
	}
	ErrPaymentIncomplete = &DomainError{
		Code: "PAYMENT_INCOMPLETE", Kind: KindPrecondition,
		Message: "document is not fully paid",
	}
	ErrDuplicateDispute = &DomainError{
		Code: "DUPLICATE_DISPUTE", Kind: KindPrecondition,
		Message: "an open rejection case already exists for this document",
	}
	ErrCaseAlreadyClosed = &DomainError{
		Code: "CASE_ALREADY_CLOSED", Kind: KindPrecondition,
		Message: "rejection case has already been resolved",
	}
	ErrConcurrentModification = &DomainError{
		Code: "CONCURRENT_MODIFICATION", Kind: KindConcurrency,
		Message: "document was modified concurrently, re-read and retry",
	}
	ErrOverpayment = &DomainError{
		Code: "OVERPAYMENT", Kind: KindData,
		Message: "payment would exceed the estimated cost",
	}
	ErrInvalidRefund = &DomainError{
		Code: "INVALID_REFUND", Kind: KindData,
		Message: "refund adjustment would make the paid total negative",
	}
	ErrCostNotSet = &DomainError{
		Code: "COST_NOT_SET", Kind: KindData,
		Message: "document cost has not been estimated yet",
	}
	ErrInvalidAmount = &DomainError{
		Code: "INVALID_AMOUNT", Kind: KindData,
		Message: "amount must be greater than zero",
	}
	ErrNotFound = &DomainError{
		Code: "NOT_FOUND", Kind: KindNotFound,
		Message: "entity not found",
	}
	ErrUnknownService = &DomainError{
		Code: "UNKNOWN_SERVICE", Kind: KindPrecondition,
		Message: "service code is not in the catalog",
	}
	ErrNotOwner = &DomainError{
		Code: "NOT_OWNER", Kind: KindPrecondition,
		Message: "only the document owner may open a dispute",
	}
)

package model

// RequestStatus is the closed set of document request lifecycle states.
// Status changes go through the transition table below only; handlers and
// repositories never assign statuses directly.
type RequestStatus string

const (
	StatusPending               RequestStatus = "pending"
	StatusCostEstimated         RequestStatus = "cost_estimated"
	StatusPaymentPending        RequestStatus = "payment_pending"
	StatusInProgress            RequestStatus = "in_progress"
	StatusCompleted             RequestStatus = "completed"
	StatusRejectionPendingAdmin RequestStatus = "rejection_pending_admin"
	StatusRejected              RequestStatus = "rejected"
	StatusAdminRejected         RequestStatus = "admin_rejected"
)

// transitions is the authoritative edge set of the lifecycle state machine.
// admin_rejected is reachable from every non-terminal state and is handled
// separately in CanTransition.
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:               {StatusCostEstimated},
	StatusCostEstimated:         {StatusPaymentPending, StatusInProgress},
	StatusPaymentPending:        {StatusInProgress},
	StatusInProgress:            {StatusCompleted, StatusRejectionPendingAdmin},
	StatusCompleted:             {StatusRejectionPendingAdmin},
	StatusRejectionPendingAdmin: {StatusInProgress, StatusRejected},
}

// IsTerminal reports whether s ends forward progress. completed still
// admits the dispute edge to rejection_pending_admin; the transition table
// is authoritative for that.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusAdminRejected:
		return true
	}
	return false
}

// CanTransition reports whether s -> to is an edge of the lifecycle.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	if to == StatusAdminRejected {
		// Direct administrative rejection is allowed from any state that
		// is not already terminal. completed documents are contested via
		// the dispute flow instead.
		return s != StatusCompleted && s != StatusRejected && s != StatusAdminRejected
	}
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed status set.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCostEstimated, StatusPaymentPending,
		StatusInProgress, StatusCompleted, StatusRejectionPendingAdmin,
		StatusRejected, StatusAdminRejected:
		return true
	}
	return false
}

func (s RequestStatus) String() string { return string(s) }

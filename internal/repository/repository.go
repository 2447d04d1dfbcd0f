package repository

import (
	"context"
	"errors"

	"notaryflow/internal/model"
)

// Package repository contains data access abstractions for the lifecycle
// core. Implementations live in subpackages (e.g., postgres) and carry no
// business logic; all lifecycle rules stay in the service layer.

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when a revision-guarded write
	// finds the row changed since it was read. Callers re-read and retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrDuplicateIdempotencyKey is returned when a payment entry with the
	// same idempotency key was already appended for the document.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrOpenCaseExists is returned when a document already has a rejection
	// case pending admin review.
	ErrOpenCaseExists = errors.New("open rejection case exists")

	// ErrCaseClosed is returned when closing a rejection case that is no
	// longer pending admin review.
	ErrCaseClosed = errors.New("rejection case already closed")
)

// RequestRepository persists document requests.
type RequestRepository interface {
	// Create inserts a new request row in its initial state.
	Create(ctx context.Context, doc *model.DocumentRequest) (*model.DocumentRequest, error)

	// FindByID returns a request by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.DocumentRequest, error)

	// Update writes status, cost, and attachment path conditioned on
	// expectedRevision being unchanged; it bumps revision and updated_at.
	// Returns ErrConcurrentModification when the guard fails.
	Update(ctx context.Context, doc *model.DocumentRequest, expectedRevision int64) (*model.DocumentRequest, error)

	// List returns a paginated list of requests and a total count.
	List(ctx context.Context, f RequestFilter, pq PageQuery) (*PageResult[model.DocumentRequest], error)
}

// RequestFilter narrows List results.
type RequestFilter struct {
	OwnerID string
}

// PaymentRepository persists the append-only payment entry log.
type PaymentRepository interface {
	// Append inserts one ledger entry. Returns ErrDuplicateIdempotencyKey
	// when the entry's idempotency key was already recorded.
	Append(ctx context.Context, e *model.PaymentEntry) (*model.PaymentEntry, error)

	// ListByDocument returns all entries for a document in recorded order.
	ListByDocument(ctx context.Context, documentID string) ([]model.PaymentEntry, error)

	// FindByIdempotencyKey returns the entry previously recorded under the
	// key, or ErrNotFound.
	FindByIdempotencyKey(ctx context.Context, documentID, key string) (*model.PaymentEntry, error)
}

// DisputeRepository persists rejection cases.
type DisputeRepository interface {
	// Create inserts a new open case. Returns ErrOpenCaseExists when the
	// document already has a case pending admin review.
	Create(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error)

	// FindByID returns a case by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.RejectionCase, error)

	// FindOpenByDocument returns the document's open case, or ErrNotFound.
	FindOpenByDocument(ctx context.Context, documentID string) (*model.RejectionCase, error)

	// Close transitions the case out of pending_admin_review. Returns
	// ErrCaseClosed when the case was already resolved, so callers can
	// detect races between two administrators.
	Close(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error)
}

// AuditRepository persists the append-only transition trail.
type AuditRepository interface {
	Append(ctx context.Context, ev *model.AuditEvent) error
	ListByDocument(ctx context.Context, documentID string) ([]model.AuditEvent, error)
}

// Store bundles the repositories plus a transactional boundary. InTx runs fn
// against a store view whose repositories share one database transaction;
// the ledger append and the status projection update of a single operation
// always commit or roll back together.
type Store interface {
	Requests() RequestRepository
	Payments() PaymentRepository
	Disputes() DisputeRepository
	Audit() AuditRepository

	InTx(ctx context.Context, fn func(tx Store) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

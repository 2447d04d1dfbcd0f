package mocks

import (
	"context"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore satisfies repository.Store for service tests. InTx runs fn
// against the same mock view, so expectations set on the sub-repositories
// cover both transactional and standalone calls.
type MockStore struct {
	RequestsRepo *MockRequestRepository
	PaymentsRepo *MockPaymentRepository
	DisputesRepo *MockDisputeRepository
	AuditRepo    *MockAuditRepository

	// TxErr, when set, makes InTx fail without invoking fn.
	TxErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		RequestsRepo: new(MockRequestRepository),
		PaymentsRepo: new(MockPaymentRepository),
		DisputesRepo: new(MockDisputeRepository),
		AuditRepo:    new(MockAuditRepository),
	}
}

var _ repository.Store = (*MockStore)(nil)

func (m *MockStore) Requests() repository.RequestRepository { return m.RequestsRepo }
func (m *MockStore) Payments() repository.PaymentRepository { return m.PaymentsRepo }
func (m *MockStore) Disputes() repository.DisputeRepository { return m.DisputesRepo }
func (m *MockStore) Audit() repository.AuditRepository      { return m.AuditRepo }

func (m *MockStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if m.TxErr != nil {
		return m.TxErr
	}
	return fn(m)
}

// AssertExpectations asserts on all sub-repositories.
func (m *MockStore) AssertExpectations(t mock.TestingT) {
	m.RequestsRepo.AssertExpectations(t)
	m.PaymentsRepo.AssertExpectations(t)
	m.DisputesRepo.AssertExpectations(t)
	m.AuditRepo.AssertExpectations(t)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, doc *model.DocumentRequest) (*model.DocumentRequest, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, doc *model.DocumentRequest, expectedRevision int64) (*model.DocumentRequest, error) {
	args := m.Called(ctx, doc, expectedRevision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, f repository.RequestFilter, pq repository.PageQuery) (*repository.PageResult[model.DocumentRequest], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentRequest]), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Append(ctx context.Context, e *model.PaymentEntry) (*model.PaymentEntry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentEntry), args.Error(1)
}

func (m *MockPaymentRepository) ListByDocument(ctx context.Context, documentID string) ([]model.PaymentEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentEntry), args.Error(1)
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, documentID, key string) (*model.PaymentEntry, error) {
	args := m.Called(ctx, documentID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentEntry), args.Error(1)
}

type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

func (m *MockDisputeRepository) FindByID(ctx context.Context, id string) (*model.RejectionCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

func (m *MockDisputeRepository) FindOpenByDocument(ctx context.Context, documentID string) (*model.RejectionCase, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

func (m *MockDisputeRepository) Close(ctx context.Context, c *model.RejectionCase) (*model.RejectionCase, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, ev *model.AuditEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AuditEvent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

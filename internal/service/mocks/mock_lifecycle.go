package mocks

import (
	"context"

	"notaryflow/internal/model"
	"notaryflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Submit(ctx context.Context, in service.SubmitInput) (*model.DocumentRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockLifecycle) EstimateCost(ctx context.Context, documentID string, in service.EstimateInput) (*model.DocumentRequest, error) {
	args := m.Called(ctx, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockLifecycle) RecordPayment(ctx context.Context, documentID string, in service.PaymentInput) (*service.PaymentResult, error) {
	args := m.Called(ctx, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentResult), args.Error(1)
}

func (m *MockLifecycle) Complete(ctx context.Context, documentID, actorID string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, documentID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockLifecycle) AdminReject(ctx context.Context, documentID, reason, actorID string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, documentID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockLifecycle) Get(ctx context.Context, documentID string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockLifecycle) List(ctx context.Context, ownerID string, limit, offset int) (*service.RequestListResult, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RequestListResult), args.Error(1)
}

func (m *MockLifecycle) AuditTrail(ctx context.Context, documentID string) ([]model.AuditEvent, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

func (m *MockLifecycle) Summarize(ctx context.Context, documentID string) (*model.LedgerSummary, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerSummary), args.Error(1)
}

type MockDisputes struct {
	mock.Mock
}

func (m *MockDisputes) OpenDispute(ctx context.Context, documentID, userID, reason string) (*model.RejectionCase, error) {
	args := m.Called(ctx, documentID, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

func (m *MockDisputes) AdminApprove(ctx context.Context, caseID, adminID, reason string) (*model.RejectionCase, error) {
	args := m.Called(ctx, caseID, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

func (m *MockDisputes) AdminDisagree(ctx context.Context, caseID, adminID string) (*model.RejectionCase, error) {
	args := m.Called(ctx, caseID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RejectionCase), args.Error(1)
}

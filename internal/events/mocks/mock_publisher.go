package mocks

import (
	"context"

	"notaryflow/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransition(ctx context.Context, ev model.AuditEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

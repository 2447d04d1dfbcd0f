package mocks

import (
	"context"

	"notaryflow/internal/kyc"

	"github.com/stretchr/testify/mock"
)

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Check(ctx context.Context, userID string) (kyc.Verdict, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kyc.Verdict), args.Error(1)
}

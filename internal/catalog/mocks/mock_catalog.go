package mocks

import (
	"context"

	"notaryflow/internal/catalog"

	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Config(ctx context.Context, serviceCode string) (catalog.ServiceConfig, error) {
	args := m.Called(ctx, serviceCode)
	return args.Get(0).(catalog.ServiceConfig), args.Error(1)
}

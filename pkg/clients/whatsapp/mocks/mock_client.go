package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mamadbah2/juicepos/pkg/clients/whatsapp"
)

// MockClient is a testify mock of whatsapp.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) SendTextMessage(ctx context.Context, req whatsapp.SendTextMessageRequest) (*whatsapp.SendTextMessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendTextMessageResponse), args.Error(1)
}

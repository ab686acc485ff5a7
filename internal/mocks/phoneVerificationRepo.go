package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockPhoneVerificationRepo struct {
	mock.Mock
}

func (m *MockPhoneVerificationRepo) MarkVerified(ctx context.Context, sellerID, phoneNumber string, at time.Time) error {
	args := m.Called(ctx, sellerID, phoneNumber, at)
	return args.Error(0)
}

func (m *MockPhoneVerificationRepo) VerifiedAt(ctx context.Context, sellerID, phoneNumber string) (*time.Time, error) {
	args := m.Called(ctx, sellerID, phoneNumber)
	at, _ := args.Get(0).(*time.Time)
	return at, args.Error(1)
}

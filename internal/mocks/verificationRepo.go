package mocks

import (
	"context"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) GetBySellerID(ctx context.Context, sellerID string) (*models.VerificationRecord, bool, error) {
	args := m.Called(ctx, sellerID)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Bool(1), args.Error(2)
}

func (m *MockVerificationRepo) GetOne(ctx context.Context, id string) (*models.VerificationRecord, bool, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Bool(1), args.Error(2)
}

func (m *MockVerificationRepo) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRecord, int, error) {
	args := m.Called(ctx, limit, offset)
	records, _ := args.Get(0).([]models.VerificationRecord)
	return records, args.Int(1), args.Error(2)
}

func (m *MockVerificationRepo) History(ctx context.Context, id string) ([]models.VerificationRound, error) {
	args := m.Called(ctx, id)
	rounds, _ := args.Get(0).([]models.VerificationRound)
	return rounds, args.Error(1)
}

func (m *MockVerificationRepo) Insert(ctx context.Context, rec *models.VerificationRecord, round *models.VerificationRound) (bool, error) {
	args := m.Called(ctx, rec, round)
	return args.Bool(0), args.Error(1)
}

func (m *MockVerificationRepo) Update(ctx context.Context, rec *models.VerificationRecord, guard repository.Guard, round *models.VerificationRound) (bool, error) {
	args := m.Called(ctx, rec, guard, round)
	return args.Bool(0), args.Error(1)
}

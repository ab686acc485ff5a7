package mocks

import (
	"context"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Upload(ctx context.Context, uploads []models.DocumentUpload) ([]models.Document, error) {
	args := m.Called(ctx, uploads)
	docs, _ := args.Get(0).([]models.Document)
	return docs, args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, docs []models.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyReviewed(ctx context.Context, outcome models.ReviewOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

// MockSender remembers the last code per number so tests can answer the challenge
type MockSender struct {
	mock.Mock
	Codes map[string]string
}

func (m *MockSender) SendCode(ctx context.Context, phoneNumber, code string) error {
	if m.Codes == nil {
		m.Codes = map[string]string{}
	}
	m.Codes[phoneNumber] = code

	args := m.Called(ctx, phoneNumber, code)
	return args.Error(0)
}

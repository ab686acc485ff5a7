package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/cradoe/sellerverify/internal/helper"
	"github.com/cradoe/sellerverify/internal/mocks"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type noopReporter struct{}

func (noopReporter) ReportServerError(_ *http.Request, _ error) {}

func newTestWorker(users *mocks.MockUserRepo, mailer *mocks.MockMailer) *Worker {
	return New(&Worker{
		Users:  users,
		Mailer: mailer,
		Helper: helper.New("https://sellers.example.com", &sync.WaitGroup{}, noopReporter{}),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Ctx:    context.Background(),
	})
}

func encodedOutcome(t *testing.T, decision models.ReviewDecision, reason *string) []byte {
	t.Helper()

	value, err := json.Marshal(models.ReviewOutcome{
		EventID:    "evt-1",
		SellerID:   "seller-1",
		Decision:   decision,
		Level:      models.LevelStandard,
		Reason:     reason,
		ReviewedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return value
}

func TestHandleReviewed_EmailsSeller(t *testing.T) {
	users := &mocks.MockUserRepo{}
	mailer := &mocks.MockMailer{}
	wk := newTestWorker(users, mailer)

	users.On("GetOne", mock.Anything, "seller-1").Return(&models.User{
		ID:        "seller-1",
		FirstName: "Ada",
		Email:     "ada@example.com",
	}, true, nil)

	reason := "blurry ID"
	mailer.On("Send", "ada@example.com", mock.MatchedBy(func(data map[string]any) bool {
		return data["Approved"] == false &&
			data["Reason"] == "blurry ID" &&
			data["Level"] == models.LevelStandard &&
			data["BaseURL"] == "https://sellers.example.com"
	}), []string{"verification-reviewed.tmpl"}).Return(nil)

	require.NoError(t, wk.handleReviewed(context.Background(), encodedOutcome(t, models.DecisionReject, &reason)))
	mailer.AssertExpectations(t)
}

func TestHandleReviewed_UnknownSellerIsSkipped(t *testing.T) {
	users := &mocks.MockUserRepo{}
	mailer := &mocks.MockMailer{}
	wk := newTestWorker(users, mailer)

	users.On("GetOne", mock.Anything, "seller-1").Return(nil, false, nil)

	require.NoError(t, wk.handleReviewed(context.Background(), encodedOutcome(t, models.DecisionApprove, nil)))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReviewed_Failures(t *testing.T) {
	users := &mocks.MockUserRepo{}
	mailer := &mocks.MockMailer{}
	wk := newTestWorker(users, mailer)

	require.Error(t, wk.handleReviewed(context.Background(), []byte("{not json")))

	users.On("GetOne", mock.Anything, "seller-1").Return(&models.User{Email: "ada@example.com"}, true, nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	require.Error(t, wk.handleReviewed(context.Background(), encodedOutcome(t, models.DecisionApprove, nil)))
}

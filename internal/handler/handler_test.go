package handler

import (
	"bytes"
	stdctx "context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cradoe/sellerverify/internal/context"
	"github.com/cradoe/sellerverify/internal/errHandler"
	"github.com/cradoe/sellerverify/internal/mocks"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/verification"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) RequestChallenge(ctx stdctx.Context, sellerID, phoneNumber string) (time.Time, error) {
	args := m.Called(ctx, sellerID, phoneNumber)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockVerificationService) VerifyChallenge(ctx stdctx.Context, sellerID, phoneNumber, code string) error {
	args := m.Called(ctx, sellerID, phoneNumber, code)
	return args.Error(0)
}

func (m *MockVerificationService) Submit(ctx stdctx.Context, sellerID string, sub *verification.Submission) (*models.VerificationRecord, error) {
	args := m.Called(ctx, sellerID, sub)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Error(1)
}

func (m *MockVerificationService) GetMine(ctx stdctx.Context, sellerID string) (*models.VerificationRecord, error) {
	args := m.Called(ctx, sellerID)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Error(1)
}

func (m *MockVerificationService) Levels(ctx stdctx.Context, sellerID string) ([]verification.LevelCard, error) {
	args := m.Called(ctx, sellerID)
	cards, _ := args.Get(0).([]verification.LevelCard)
	return cards, args.Error(1)
}

func (m *MockVerificationService) ListPending(ctx stdctx.Context, page, limit int) ([]models.VerificationRecord, int, error) {
	args := m.Called(ctx, page, limit)
	records, _ := args.Get(0).([]models.VerificationRecord)
	return records, args.Int(1), args.Error(2)
}

func (m *MockVerificationService) Get(ctx stdctx.Context, id string) (*models.VerificationRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Error(1)
}

func (m *MockVerificationService) History(ctx stdctx.Context, id string) ([]models.VerificationRound, error) {
	args := m.Called(ctx, id)
	rounds, _ := args.Get(0).([]models.VerificationRound)
	return rounds, args.Error(1)
}

func (m *MockVerificationService) StartReview(ctx stdctx.Context, id, adminID string) (*models.VerificationRecord, error) {
	args := m.Called(ctx, id, adminID)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Error(1)
}

func (m *MockVerificationService) Review(ctx stdctx.Context, id, adminID string, decision models.ReviewDecision, reason, notes *string) (*models.VerificationRecord, error) {
	args := m.Called(ctx, id, adminID, decision, reason, notes)
	rec, _ := args.Get(0).(*models.VerificationRecord)
	return rec, args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx stdctx.Context) error {
	return p.err
}

var (
	testSeller = &models.User{ID: "seller-1", Role: models.RoleSeller, Status: "active"}
	testAdmin  = &models.User{ID: "admin-1", Role: models.RoleAdmin, Status: "active"}
)

func newTestHandler(users *mocks.MockUserRepo, svc *MockVerificationService) *RouteHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := mocks.NewMockConfig()

	return NewRouteHandler(&RouteHandler{
		ErrHandler:   errHandler.New("", cfg.BaseURL, nil, logger),
		Users:        users,
		Verification: svc,
		Config:       cfg,
	})
}

func jsonRequest(t *testing.T, method, target string, body any, user *models.User) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(method, target, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	if user != nil {
		r = context.ContextSetAuthenticatedUser(r, user)
	}
	return r
}

// decodeBody unmarshals the response envelope
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var errBoom = errors.New("boom")

// pngBytes is enough of a PNG for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte, types []string, user *models.User) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("documents", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for _, docType := range types {
		require.NoError(t, mw.WriteField("document_types", docType))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/verification/submit", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	if user != nil {
		r = context.ContextSetAuthenticatedUser(r, user)
	}
	return r
}

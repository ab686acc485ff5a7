package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cradoe/sellerverify/internal/config"
	"github.com/cradoe/sellerverify/internal/errHandler"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/cradoe/sellerverify/internal/verification"
)

// VerificationService is the part of verification.Service the routes call
type VerificationService interface {
	RequestChallenge(ctx context.Context, sellerID, phoneNumber string) (time.Time, error)
	VerifyChallenge(ctx context.Context, sellerID, phoneNumber, code string) error
	Submit(ctx context.Context, sellerID string, sub *verification.Submission) (*models.VerificationRecord, error)
	GetMine(ctx context.Context, sellerID string) (*models.VerificationRecord, error)
	Levels(ctx context.Context, sellerID string) ([]verification.LevelCard, error)

	ListPending(ctx context.Context, page, limit int) ([]models.VerificationRecord, int, error)
	Get(ctx context.Context, id string) (*models.VerificationRecord, error)
	History(ctx context.Context, id string) ([]models.VerificationRound, error)
	StartReview(ctx context.Context, id, adminID string) (*models.VerificationRecord, error)
	Review(ctx context.Context, id, adminID string, decision models.ReviewDecision, reason, notes *string) (*models.VerificationRecord, error)
}

// Pinger is a dependency the status endpoint reports on
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouteHandler struct {
	ErrHandler   *errHandler.ErrorRepository
	Users        repository.UserRepository
	Verification VerificationService
	Config       *config.Config

	// Dependencies are checked by GET /status, keyed by the name reported back
	Dependencies map[string]Pinger
}

func NewRouteHandler(handler *RouteHandler) *RouteHandler {
	return &RouteHandler{
		ErrHandler:   handler.ErrHandler,
		Users:        handler.Users,
		Verification: handler.Verification,
		Config:       handler.Config,
		Dependencies: handler.Dependencies,
	}
}

type queryStringValues struct {
	Page  int
	Limit int
}

func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{}

	limitStr := r.URL.Query().Get("limit")
	pageStr := r.URL.Query().Get("page")

	// Default pagination values
	page := 1
	limit := 10

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = min(parsedLimit, 100)
		}
	}
	queryValues.Limit = limit

	if pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 1 {
			page = parsedPage
		}
	}
	queryValues.Page = page

	return queryValues
}

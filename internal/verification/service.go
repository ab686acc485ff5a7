package verification

import (
	"context"
	"log/slog"
	"time"

	"github.com/cradoe/sellerverify/internal/cache"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
)

// ChallengeStore holds the live OTP challenge per phone number
type ChallengeStore interface {
	Issue(ctx context.Context, ch *models.OtpChallenge, cooldown time.Duration) (bool, error)
	Verify(ctx context.Context, sellerID, phoneNumber, code string, now time.Time, maxAttempts int) (cache.VerifyOutcome, error)
}

type CodeSender interface {
	SendCode(ctx context.Context, phoneNumber, code string) error
}

// DocumentStore persists uploaded files and hands back references to them
type DocumentStore interface {
	Upload(ctx context.Context, uploads []models.DocumentUpload) ([]models.Document, error)
	Delete(ctx context.Context, docs []models.Document) error
}

type Notifier interface {
	NotifyReviewed(ctx context.Context, outcome models.ReviewOutcome) error
}

// BackgroundRunner runs fn outside the request; failures are reported, never returned
type BackgroundRunner interface {
	BackgroundTask(fn func() error)
}

type Config struct {
	OtpTTL            time.Duration
	OtpMaxAttempts    int
	OtpResendCooldown time.Duration

	// PhoneReverifyGrace is how long a seller who changed a verified number may keep
	// submitting before the new number has to be verified
	PhoneReverifyGrace time.Duration

	// ApprovalValidity of zero means approvals never expire
	ApprovalValidity time.Duration
}

type Dependencies struct {
	Verifications      repository.VerificationRepository
	PhoneVerifications repository.PhoneVerificationRepository
	Challenges         ChallengeStore
	Sender             CodeSender
	Documents          DocumentStore
	Notifier           Notifier
	Background         BackgroundRunner
	Logger             *slog.Logger
	Now                func() time.Time
}

type Service struct {
	config Config

	verifications repository.VerificationRepository
	phones        repository.PhoneVerificationRepository
	challenges    ChallengeStore
	sender        CodeSender
	documents     DocumentStore
	notifier      Notifier
	background    BackgroundRunner
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(config Config, deps Dependencies) *Service {
	if config.OtpTTL <= 0 {
		config.OtpTTL = 60 * time.Second
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		config:        config,
		verifications: deps.Verifications,
		phones:        deps.PhoneVerifications,
		challenges:    deps.Challenges,
		sender:        deps.Sender,
		documents:     deps.Documents,
		notifier:      deps.Notifier,
		background:    deps.Background,
		logger:        deps.Logger,
		now:           now,
	}
}

// GetMine returns the seller's record as a reader should see it now, or ErrNotFound
func (s *Service) GetMine(ctx context.Context, sellerID string) (*models.VerificationRecord, error) {
	rec, found, err := s.verifications.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	rec.Status = EffectiveStatus(rec, s.now())
	return rec, nil
}

// Levels returns one card per tier describing what the seller can do with it
func (s *Service) Levels(ctx context.Context, sellerID string) ([]LevelCard, error) {
	rec, found, err := s.verifications.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !found {
		rec = nil
	}

	return Cards(StandingOf(rec, s.now())), nil
}

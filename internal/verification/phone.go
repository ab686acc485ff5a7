package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/cradoe/sellerverify/internal/cache"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/validator"
	"github.com/google/uuid"
)

const codeLength = 6

// RequestChallenge issues a fresh code for the number, superseding any earlier one, and
// hands it to the sender in the background. A failed send does not undo the challenge;
// the seller can ask again.
func (s *Service) RequestChallenge(ctx context.Context, sellerID, phoneNumber string) (time.Time, error) {
	phone := validator.NormalizePhoneNumber(phoneNumber)

	var v validator.Validator
	v.Check(validator.NotBlank(phone), "Phone number is required")
	v.Check(phone == "" || validator.Matches(phone, validator.RgxPhoneNumber), "Phone number is not valid")
	if v.HasErrors() {
		return time.Time{}, &ValidationError{Problems: v.Errors}
	}

	code, err := generateCode()
	if err != nil {
		return time.Time{}, err
	}

	now := s.now()
	challenge := &models.OtpChallenge{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		PhoneNumber: phone,
		Code:        code,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.config.OtpTTL),
	}

	issued, err := s.challenges.Issue(ctx, challenge, s.config.OtpResendCooldown)
	if err != nil {
		return time.Time{}, err
	}
	if !issued {
		return time.Time{}, ErrResendTooSoon
	}

	s.background.BackgroundTask(func() error {
		if err := s.sender.SendCode(context.Background(), phone, code); err != nil {
			return fmt.Errorf("send verification code to %s: %w", phone, err)
		}
		return nil
	})

	s.logger.Info("phone challenge issued", "seller_id", sellerID, "challenge_id", challenge.ID)

	return challenge.ExpiresAt, nil
}

// VerifyChallenge consumes the live challenge when code matches. Success is recorded against
// the number for the seller, and on their record if it carries the same number.
func (s *Service) VerifyChallenge(ctx context.Context, sellerID, phoneNumber, code string) error {
	phone := validator.NormalizePhoneNumber(phoneNumber)
	code = validator.DigitsOnly(code)

	var v validator.Validator
	v.Check(validator.NotBlank(phone), "Phone number is required")
	v.Check(len(code) == codeLength, fmt.Sprintf("Code must be %d digits", codeLength))
	if v.HasErrors() {
		return &ValidationError{Problems: v.Errors}
	}

	now := s.now()

	outcome, err := s.challenges.Verify(ctx, sellerID, phone, code, now, s.config.OtpMaxAttempts)
	if err != nil {
		return err
	}

	switch outcome {
	case cache.OutcomeVerified:
	case cache.OutcomeMissing:
		return ErrNotFound
	case cache.OutcomeExpired:
		return ErrChallengeExpired
	case cache.OutcomeMismatch:
		return ErrCodeMismatch
	case cache.OutcomeExhausted:
		return ErrTooManyAttempts
	default:
		return fmt.Errorf("unexpected challenge outcome %q", outcome)
	}

	if err := s.phones.MarkVerified(ctx, sellerID, phone, now); err != nil {
		return err
	}

	s.logger.Info("phone number verified", "seller_id", sellerID)

	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

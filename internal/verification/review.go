package verification

import (
	"context"
	"fmt"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/google/uuid"
)

var reviewable = []models.VerificationStatus{models.StatusPending, models.StatusInReview}

// ListPending returns a page of records awaiting a decision, newest first, and the total
func (s *Service) ListPending(ctx context.Context, page, limit int) ([]models.VerificationRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	return s.verifications.ListPending(ctx, limit, (page-1)*limit)
}

func (s *Service) Get(ctx context.Context, id string) (*models.VerificationRecord, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Status = EffectiveStatus(rec, s.now())
	return rec, nil
}

// getRecord loads a record by its id. Ids that are not UUIDs are reported as ErrNotFound
// without reaching the store.
func (s *Service) getRecord(ctx context.Context, id string) (*models.VerificationRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	rec, found, err := s.verifications.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return rec, nil
}

// History lists every round the record went through, oldest first
func (s *Service) History(ctx context.Context, id string) ([]models.VerificationRound, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	return s.verifications.History(ctx, id)
}

// StartReview marks a pending record as being looked at by an admin
func (s *Service) StartReview(ctx context.Context, id, adminID string) (*models.VerificationRecord, error) {
	current, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	rec, err := applyStartReview(current, adminID, now)
	if err != nil {
		return nil, err
	}

	round, err := newRound(rec, models.RoundInReview, adminID, nil, now)
	if err != nil {
		return nil, err
	}

	guard := repository.Guard{Version: current.Version, Statuses: []models.VerificationStatus{models.StatusPending}}

	updated, err := s.verifications.Update(ctx, rec, guard, round)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, conflict("Verification was changed by someone else, reload and try again")
	}

	return rec, nil
}

// Review approves or rejects the current round. The write only lands if the record is
// exactly as it was read; anything else is reported as a conflict instead of overwriting.
// The seller is notified after the write, and a failed notification does not undo it.
func (s *Service) Review(ctx context.Context, id, adminID string, decision models.ReviewDecision, reason, notes *string) (*models.VerificationRecord, error) {
	current, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	rec, err := applyReview(current, decision, reason, notes, adminID, now, s.config.ApprovalValidity)
	if err != nil {
		return nil, err
	}

	event := models.RoundApproved
	if decision == models.DecisionReject {
		event = models.RoundRejected
	}

	round, err := newRound(rec, event, adminID, rec.RejectionReason, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.verifications.Update(ctx, rec, repository.Guard{Version: current.Version, Statuses: reviewable}, round)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, conflict("Verification was changed by someone else, reload and try again")
	}

	s.logger.Info("verification reviewed", "verification_id", rec.ID, "decision", decision, "admin_id", adminID)

	outcome := models.ReviewOutcome{
		EventID:        uuid.NewString(),
		SellerID:       rec.SellerID,
		VerificationID: rec.ID,
		Decision:       decision,
		Level:          rec.Level,
		Reason:         rec.RejectionReason,
		ReviewedAt:     now,
	}

	s.background.BackgroundTask(func() error {
		if err := s.notifier.NotifyReviewed(context.Background(), outcome); err != nil {
			return fmt.Errorf("notify seller %s of review: %w", outcome.SellerID, err)
		}
		return nil
	})

	return rec, nil
}

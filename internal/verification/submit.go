package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/cradoe/sellerverify/internal/validator"
)

// submitAttempts bounds how often a submission is re-applied after losing a write race
const submitAttempts = 3

// Submit validates a round against the seller's current standing and writes it, replacing
// whatever round was there before. Documents are uploaded before anything is written, and
// removed again if the record could not be written.
func (s *Service) Submit(ctx context.Context, sellerID string, sub *Submission) (*models.VerificationRecord, error) {
	if levelIndex(sub.Level) < 0 {
		return nil, &ValidationError{Problems: []string{"Level must be one of BASIC, STANDARD or PREMIUM"}}
	}

	now := s.now()
	phone := validator.NormalizePhoneNumber(sub.PhoneNumber)

	var provenAt *time.Time
	if phone != "" {
		var err error
		provenAt, err = s.phones.VerifiedAt(ctx, sellerID, phone)
		if err != nil {
			return nil, err
		}
	}

	current, phoneState, err := s.prepareSubmission(ctx, sellerID, sub, phone, provenAt, now)
	if err != nil {
		return nil, err
	}

	var uploaded []models.Document
	if len(sub.Documents) > 0 {
		// file names and types are checked before anything reaches the document store
		types := make([]models.DocumentType, len(sub.Documents))
		for i, doc := range sub.Documents {
			types[i] = doc.DocumentType
		}
		if err := CheckRequirements(sub, Evidence{PhoneSatisfied: phoneState.satisfied(now), DocumentTypes: types}); err != nil {
			return nil, err
		}

		uploaded, err = s.documents.Upload(ctx, sub.Documents)
		if err != nil {
			return nil, fmt.Errorf("upload documents: %w", err)
		}
	}

	rec, err := s.commitSubmission(ctx, sellerID, sub, phone, provenAt, current, phoneState, uploaded, now)
	if err != nil {
		s.discardDocuments(uploaded)
		return nil, err
	}

	s.logger.Info("verification submitted", "seller_id", sellerID, "verification_id", rec.ID, "level", rec.Level)

	return rec, nil
}

// prepareSubmission reads the seller's record and checks the requested tier is the one
// they are allowed to submit next
func (s *Service) prepareSubmission(ctx context.Context, sellerID string, sub *Submission, phone string, provenAt *time.Time, now time.Time) (*models.VerificationRecord, phoneState, error) {
	current, found, err := s.verifications.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, phoneState{}, err
	}
	if !found {
		current = nil
	}

	if !Resolve(StandingOf(current, now)).CanSubmit(sub.Level) {
		return nil, phoneState{}, conflict(ineligibleReason(current, sub.Level, now))
	}

	return current, resolvePhone(current, phone, provenAt, now, s.config.PhoneReverifyGrace), nil
}

func (s *Service) commitSubmission(ctx context.Context, sellerID string, sub *Submission, phone string, provenAt *time.Time, current *models.VerificationRecord, ps phoneState, uploaded []models.Document, now time.Time) (*models.VerificationRecord, error) {
	for attempt := 1; ; attempt++ {
		docs := uploaded
		if len(sub.Documents) == 0 {
			docs = []models.Document{}
			if current != nil {
				docs = current.Documents
			}
		}

		types := make([]models.DocumentType, len(docs))
		for i, doc := range docs {
			types[i] = doc.DocumentType
		}
		if err := CheckRequirements(sub, Evidence{PhoneSatisfied: ps.satisfied(now), DocumentTypes: types}); err != nil {
			return nil, err
		}

		rec := applySubmission(current, sellerID, sub, ps, docs, now)

		round, err := newRound(rec, models.RoundSubmitted, sellerID, nil, now)
		if err != nil {
			return nil, err
		}

		var written bool
		if current == nil {
			written, err = s.verifications.Insert(ctx, rec, round)
		} else {
			written, err = s.verifications.Update(ctx, rec, repository.Guard{Version: current.Version}, round)
		}
		if err != nil {
			return nil, err
		}
		if written {
			rec.Status = EffectiveStatus(rec, now)
			return rec, nil
		}

		if attempt == submitAttempts {
			return nil, conflict("Verification was changed while submitting, please try again")
		}

		s.logger.Warn("verification write lost a race, retrying", "seller_id", sellerID, "attempt", attempt)

		current, ps, err = s.prepareSubmission(ctx, sellerID, sub, phone, provenAt, now)
		if err != nil {
			return nil, err
		}
	}
}

// discardDocuments removes files that were uploaded for a submission that never landed
func (s *Service) discardDocuments(docs []models.Document) {
	if len(docs) == 0 {
		return
	}

	s.background.BackgroundTask(func() error {
		if err := s.documents.Delete(context.Background(), docs); err != nil {
			return fmt.Errorf("discard %d uploaded documents: %w", len(docs), err)
		}
		return nil
	})
}

func ineligibleReason(current *models.VerificationRecord, target models.VerificationLevel, now time.Time) string {
	r := Resolve(StandingOf(current, now))

	if r.IsVerifiedAt(target) {
		return fmt.Sprintf("You are already verified at %s", target)
	}

	if !r.CanAccess(target) {
		return fmt.Sprintf("Complete the previous level before applying for %s", target)
	}

	if current != nil && levelIndex(target) < levelIndex(current.Level) {
		return fmt.Sprintf("Your verification is already at %s and cannot go back to %s", current.Level, target)
	}

	return fmt.Sprintf("You cannot apply for %s at this time", target)
}

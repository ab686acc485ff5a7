package verification

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/validator"
)

// phoneState is what the record will say about the phone number once a submission lands
type phoneState struct {
	verified   bool
	verifiedAt *time.Time
	deadline   *time.Time
}

func (p phoneState) satisfied(now time.Time) bool {
	return p.verified || (p.deadline != nil && now.Before(*p.deadline))
}

// resolvePhone decides the phone fields for a submission. provenAt is when the seller last
// passed an OTP check for this exact number, nil if never.
// Moving away from a verified number opens a grace window instead of failing outright. The
// window is opened once and never extended by further changes.
func resolvePhone(current *models.VerificationRecord, phone string, provenAt *time.Time, now time.Time, grace time.Duration) phoneState {
	if provenAt != nil {
		return phoneState{verified: true, verifiedAt: provenAt}
	}

	if current == nil || grace <= 0 {
		return phoneState{}
	}

	if current.IsPhoneVerified && current.PhoneNumber != phone {
		deadline := now.Add(grace)
		return phoneState{deadline: &deadline}
	}

	return phoneState{deadline: current.PhoneVerificationDeadline}
}

// applySubmission overwrites the record in place for a new round. Review fields from the
// previous round are left for the seller to see; the round history has the full story.
func applySubmission(current *models.VerificationRecord, sellerID string, s *Submission, phone phoneState, docs []models.Document, now time.Time) *models.VerificationRecord {
	var rec *models.VerificationRecord
	if current == nil {
		rec = &models.VerificationRecord{
			SellerID:  sellerID,
			CreatedAt: now,
		}
	} else {
		rec = current.Clone()
	}

	rec.Level = s.Level
	rec.Status = models.StatusPending

	rec.PhoneNumber = validator.NormalizePhoneNumber(s.PhoneNumber)
	rec.IsPhoneVerified = phone.verified
	rec.PhoneVerifiedAt = phone.verifiedAt
	rec.PhoneVerificationDeadline = phone.deadline
	if phone.verified {
		rec.PhoneVerificationDeadline = nil
	}

	rec.FullName = optional(s.FullName)
	rec.IDNumber = optional(s.IDNumber)
	rec.DateOfBirth = s.DateOfBirth
	rec.Address = optional(s.Address)
	rec.City = optional(s.City)
	rec.State = optional(s.State)
	rec.Country = optional(s.Country)

	bankChanged := !sameValue(rec.BankAccountNumber, s.BankAccountNumber) || !sameValue(rec.BankName, s.BankName)
	rec.BankName = optional(s.BankName)
	rec.BankAccountNumber = optional(s.BankAccountNumber)
	rec.AccountHolderName = optional(s.AccountHolderName)
	if bankChanged {
		rec.IsBankVerified = false
	}

	rec.Documents = docs

	rec.SubmittedAt = now
	rec.UpdatedAt = now

	return rec
}

// applyReview finalises a round. Only PENDING and IN_REVIEW records can be decided.
func applyReview(current *models.VerificationRecord, decision models.ReviewDecision, reason, notes *string, adminID string, now time.Time, approvalValidity time.Duration) (*models.VerificationRecord, error) {
	if !isReviewable(current.Status) {
		return nil, conflict(fmt.Sprintf("Verification is already %s and cannot be reviewed", strings.ToLower(string(current.Status))))
	}

	rec := current.Clone()

	switch decision {
	case models.DecisionApprove:
		rec.Status = models.StatusApproved
		rec.ApprovedAt = &now
		rec.RejectionReason = nil

		level := rec.Level
		if rec.HighestApprovedLevel == nil || levelIndex(*rec.HighestApprovedLevel) < levelIndex(level) {
			rec.HighestApprovedLevel = &level
		}

		rec.ExpiresAt = nil
		if approvalValidity > 0 {
			expiresAt := now.Add(approvalValidity)
			rec.ExpiresAt = &expiresAt
		}

		if level == models.LevelPremium {
			rec.IsBankVerified = true
		}

	case models.DecisionReject:
		rec.Status = models.StatusRejected
		rec.RejectedAt = &now
		rec.RejectionReason = nil
		if reason != nil && *reason != "" {
			r := *reason
			rec.RejectionReason = &r
		}

	default:
		return nil, &ValidationError{Problems: []string{"Decision must be APPROVE or REJECT"}}
	}

	rec.ReviewedBy = &adminID
	rec.ReviewedAt = &now
	if notes != nil && *notes != "" {
		n := *notes
		rec.AdminNotes = &n
	}
	rec.UpdatedAt = now

	return rec, nil
}

func applyStartReview(current *models.VerificationRecord, adminID string, now time.Time) (*models.VerificationRecord, error) {
	if current.Status != models.StatusPending {
		return nil, conflict(fmt.Sprintf("Only pending verifications can be moved to review, this one is %s", strings.ToLower(string(current.Status))))
	}

	rec := current.Clone()
	rec.Status = models.StatusInReview
	rec.ReviewedBy = &adminID
	rec.ReviewedAt = &now
	rec.UpdatedAt = now

	return rec, nil
}

func newRound(rec *models.VerificationRecord, event models.RoundEvent, actorID string, reason *string, now time.Time) (*models.VerificationRound, error) {
	snapshot, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("snapshot verification: %w", err)
	}

	return &models.VerificationRound{
		Event:     event,
		Level:     rec.Level,
		Status:    rec.Status,
		ActorID:   actorID,
		Reason:    reason,
		Snapshot:  snapshot,
		CreatedAt: now,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func sameValue(current *string, next string) bool {
	next = strings.TrimSpace(next)
	if current == nil {
		return next == ""
	}
	return *current == next
}

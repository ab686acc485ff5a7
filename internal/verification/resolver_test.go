package verification

import (
	"testing"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelPtr(l models.VerificationLevel) *models.VerificationLevel {
	return &l
}

func TestResolve_NoRecord(t *testing.T) {
	r := Resolve(Standing{})

	_, ok := r.HighestVerified()
	require.False(t, ok)

	assert.True(t, r.CanUpgradeTo(models.LevelBasic))
	assert.True(t, r.CanSubmit(models.LevelBasic))
	assert.False(t, r.CanUpgradeTo(models.LevelStandard))
	assert.False(t, r.CanAccess(models.LevelStandard))
	assert.False(t, r.CanAccess(models.LevelPremium))

	assert.Equal(t, ActionGetVerified, r.Action(models.LevelBasic))
	assert.Equal(t, ActionCompletePrevious, r.Action(models.LevelStandard))
	assert.Equal(t, ActionCompletePrevious, r.Action(models.LevelPremium))
}

func TestResolve_BasicApproved(t *testing.T) {
	r := Resolve(Standing{
		Level:           models.LevelBasic,
		Status:          models.StatusApproved,
		HighestApproved: levelPtr(models.LevelBasic),
	})

	assert.True(t, r.IsVerifiedAt(models.LevelBasic))
	assert.True(t, r.CanUpgradeTo(models.LevelStandard))
	assert.False(t, r.CanAccess(models.LevelPremium))
	assert.False(t, r.CanSubmit(models.LevelBasic))
	assert.True(t, r.CanSubmit(models.LevelStandard))

	assert.Equal(t, ActionViewDetails, r.Action(models.LevelBasic))
	assert.Equal(t, ActionUpgrade, r.Action(models.LevelStandard))
	assert.Equal(t, ActionCompletePrevious, r.Action(models.LevelPremium))
}

func TestResolve_RejectedHigherTierKeepsEarlierApproval(t *testing.T) {
	r := Resolve(Standing{
		Level:           models.LevelStandard,
		Status:          models.StatusRejected,
		HighestApproved: levelPtr(models.LevelBasic),
	})

	assert.True(t, r.IsVerifiedAt(models.LevelBasic))
	assert.False(t, r.IsVerifiedAt(models.LevelStandard))
	assert.True(t, r.CanSubmit(models.LevelStandard))

	level, ok := r.HighestVerified()
	require.True(t, ok)
	assert.Equal(t, models.LevelBasic, level)
}

func TestResolve_PendingIsNotEvidenceOfApproval(t *testing.T) {
	// a record pushed to STANDARD without any approval on file
	r := Resolve(Standing{Level: models.LevelStandard, Status: models.StatusPending})

	assert.False(t, r.IsVerifiedAt(models.LevelBasic))
	assert.False(t, r.CanSubmit(models.LevelStandard))
	assert.False(t, r.CanSubmit(models.LevelBasic))
}

func TestResolve_PendingResubmissionAtSameTier(t *testing.T) {
	for _, status := range []models.VerificationStatus{models.StatusPending, models.StatusInReview} {
		t.Run(string(status), func(t *testing.T) {
			r := Resolve(Standing{
				Level:           models.LevelStandard,
				Status:          status,
				HighestApproved: levelPtr(models.LevelBasic),
			})

			assert.True(t, r.CanSubmit(models.LevelStandard))
			assert.False(t, r.CanSubmit(models.LevelPremium))
			assert.False(t, r.CanSubmit(models.LevelBasic))
		})
	}
}

func TestResolve_ExpiredApproval(t *testing.T) {
	r := Resolve(Standing{
		Level:           models.LevelStandard,
		Status:          models.StatusExpired,
		HighestApproved: levelPtr(models.LevelStandard),
	})

	assert.True(t, r.IsVerifiedAt(models.LevelBasic))
	assert.False(t, r.IsVerifiedAt(models.LevelStandard))
	assert.True(t, r.CanSubmit(models.LevelStandard))
	assert.False(t, r.CanSubmit(models.LevelPremium))
}

func TestResolve_PremiumApprovedCannotSubmit(t *testing.T) {
	r := Resolve(Standing{
		Level:           models.LevelPremium,
		Status:          models.StatusApproved,
		HighestApproved: levelPtr(models.LevelPremium),
	})

	for _, level := range Levels {
		assert.True(t, r.IsVerifiedAt(level))
		assert.False(t, r.CanSubmit(level))
		assert.Equal(t, ActionViewDetails, r.Action(level))
	}
}

func TestResolve_UnknownTarget(t *testing.T) {
	r := Resolve(Standing{})

	assert.False(t, r.IsVerifiedAt("GOLD"))
	assert.False(t, r.CanUpgradeTo("GOLD"))
	assert.False(t, r.CanAccess("GOLD"))
	assert.False(t, r.CanSubmit("GOLD"))
}

func TestInferVerifiedThrough(t *testing.T) {
	statuses := []models.VerificationStatus{
		models.StatusPending, models.StatusInReview, models.StatusApproved,
		models.StatusRejected, models.StatusExpired,
	}

	for _, level := range Levels {
		for _, status := range statuses {
			t.Run(string(level)+"_"+string(status), func(t *testing.T) {
				vt := InferVerifiedThrough(level, status)
				basicVerified := vt >= 0

				want := (status == models.StatusApproved) ||
					(isReviewable(status) && level != models.LevelBasic)

				assert.Equal(t, want, basicVerified)
			})
		}
	}
}

func TestCards(t *testing.T) {
	cards := Cards(Standing{
		Level:           models.LevelStandard,
		Status:          models.StatusRejected,
		HighestApproved: levelPtr(models.LevelBasic),
	})

	require.Len(t, cards, 3)

	assert.Equal(t, models.LevelBasic, cards[0].Level)
	assert.True(t, cards[0].Verified)
	assert.False(t, cards[0].Current)
	assert.Nil(t, cards[0].Status)

	assert.Equal(t, ActionUpgrade, cards[1].Action)
	assert.True(t, cards[1].Current)
	require.NotNil(t, cards[1].Status)
	assert.Equal(t, models.StatusRejected, *cards[1].Status)

	assert.Equal(t, ActionCompletePrevious, cards[2].Action)
	assert.False(t, cards[2].CanAccess)
}

func TestStandingOf_UsesEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)

	rec := &models.VerificationRecord{
		Level:                models.LevelBasic,
		Status:               models.StatusApproved,
		HighestApprovedLevel: levelPtr(models.LevelBasic),
		ExpiresAt:            &expired,
	}

	s := StandingOf(rec, now)
	assert.Equal(t, models.StatusExpired, s.Status)
	assert.False(t, Resolve(s).IsVerifiedAt(models.LevelBasic))
	assert.True(t, Resolve(s).CanSubmit(models.LevelBasic))

	s = StandingOf(rec, expired.Add(-time.Second))
	assert.Equal(t, models.StatusApproved, s.Status)

	assert.Equal(t, Standing{}, StandingOf(nil, now))
}

func TestParseLevel(t *testing.T) {
	level, ok := ParseLevel(" premium ")
	require.True(t, ok)
	assert.Equal(t, models.LevelPremium, level)

	_, ok = ParseLevel("gold")
	assert.False(t, ok)
}

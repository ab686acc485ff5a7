package verification

import (
	"strings"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"golang.org/x/exp/slices"
)

// Levels lists the tiers from lowest to highest. A seller climbs them one at a time.
var Levels = []models.VerificationLevel{
	models.LevelBasic,
	models.LevelStandard,
	models.LevelPremium,
}

// levelIndex returns the position of a level in Levels, or -1 if unknown
func levelIndex(level models.VerificationLevel) int {
	return slices.Index(Levels, level)
}

// ParseLevel accepts any casing of a level name
func ParseLevel(s string) (models.VerificationLevel, bool) {
	level := models.VerificationLevel(strings.ToUpper(strings.TrimSpace(s)))
	if levelIndex(level) < 0 {
		return "", false
	}
	return level, true
}

// EffectiveStatus projects the stored status onto what a reader should see at `now`.
// An approval whose expiry has passed reads as EXPIRED without any write.
func EffectiveStatus(rec *models.VerificationRecord, now time.Time) models.VerificationStatus {
	if rec.Status == models.StatusApproved && rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
		return models.StatusExpired
	}
	return rec.Status
}

func isReviewable(status models.VerificationStatus) bool {
	return status == models.StatusPending || status == models.StatusInReview
}

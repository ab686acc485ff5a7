package verification

import (
	"time"

	"github.com/cradoe/sellerverify/internal/models"
)

// Action is what a seller is offered for a given tier
type Action string

const (
	ActionViewDetails      Action = "view_details"
	ActionUpgrade          Action = "upgrade"
	ActionCompletePrevious Action = "complete_previous"
	ActionGetVerified      Action = "get_verified"
)

// Standing is everything the resolver needs to know about a seller.
// A zero Standing describes a seller with no record.
type Standing struct {
	Level           models.VerificationLevel
	Status          models.VerificationStatus
	HighestApproved *models.VerificationLevel
}

// StandingOf builds the resolver input from a stored record. A nil record is a seller
// who never submitted anything.
func StandingOf(rec *models.VerificationRecord, now time.Time) Standing {
	if rec == nil {
		return Standing{}
	}

	return Standing{
		Level:           rec.Level,
		Status:          EffectiveStatus(rec, now),
		HighestApproved: rec.HighestApprovedLevel,
	}
}

// InferVerifiedThrough is the legacy rule that guesses the highest approved tier from
// the current round alone: a seller mid-review for a tier is assumed to hold the one below.
// It is only used to back-fill records that predate highest_approved_level.
func InferVerifiedThrough(level models.VerificationLevel, status models.VerificationStatus) int {
	cur := levelIndex(level)

	switch {
	case status == models.StatusApproved:
		return cur
	case isReviewable(status) && cur > 0:
		return cur - 1
	default:
		return -1
	}
}

type Resolver struct {
	current         int
	verifiedThrough int
}

// Resolve answers eligibility questions for every tier. It performs no I/O.
func Resolve(s Standing) Resolver {
	verifiedThrough := -1
	if s.HighestApproved != nil {
		verifiedThrough = levelIndex(*s.HighestApproved)
	}

	current := levelIndex(s.Level)

	// a lapsed approval stops counting for its own tier, earlier tiers stand
	if s.Status == models.StatusExpired && verifiedThrough >= current {
		verifiedThrough = current - 1
	}

	return Resolver{
		current:         current,
		verifiedThrough: verifiedThrough,
	}
}

func (r Resolver) IsVerifiedAt(target models.VerificationLevel) bool {
	tgt := levelIndex(target)
	return tgt >= 0 && tgt <= r.verifiedThrough
}

// CanUpgradeTo is true only for the tier right above the highest approved one.
// BASIC is always reachable for a seller with nothing approved.
func (r Resolver) CanUpgradeTo(target models.VerificationLevel) bool {
	tgt := levelIndex(target)
	if tgt < 0 {
		return false
	}

	if r.verifiedThrough >= 0 && tgt == r.verifiedThrough+1 {
		return true
	}

	return tgt == 0 && r.verifiedThrough == -1
}

func (r Resolver) CanAccess(target models.VerificationLevel) bool {
	tgt := levelIndex(target)
	if tgt < 0 {
		return false
	}
	return tgt == 0 || tgt <= r.verifiedThrough+1
}

// CanSubmit combines the upgrade rule with the requirement that a record's level never
// goes down.
func (r Resolver) CanSubmit(target models.VerificationLevel) bool {
	return r.CanUpgradeTo(target) && levelIndex(target) >= r.current
}

// HighestVerified returns the top tier the seller currently holds
func (r Resolver) HighestVerified() (models.VerificationLevel, bool) {
	if r.verifiedThrough < 0 {
		return "", false
	}
	return Levels[r.verifiedThrough], true
}

func (r Resolver) Action(target models.VerificationLevel) Action {
	switch {
	case r.IsVerifiedAt(target):
		return ActionViewDetails
	case r.CanUpgradeTo(target) && r.verifiedThrough >= 0:
		return ActionUpgrade
	case !r.CanAccess(target):
		return ActionCompletePrevious
	default:
		return ActionGetVerified
	}
}

type LevelCard struct {
	Level      models.VerificationLevel   `json:"level"`
	Verified   bool                       `json:"verified"`
	CanUpgrade bool                       `json:"can_upgrade"`
	CanAccess  bool                       `json:"can_access"`
	Action     Action                     `json:"action"`
	Current    bool                       `json:"current"`
	Status     *models.VerificationStatus `json:"status,omitempty"`
}

// Cards renders one entry per tier, in order, for the seller's verification page
func Cards(s Standing) []LevelCard {
	r := Resolve(s)

	cards := make([]LevelCard, len(Levels))
	for i, level := range Levels {
		cards[i] = LevelCard{
			Level:      level,
			Verified:   r.IsVerifiedAt(level),
			CanUpgrade: r.CanUpgradeTo(level),
			CanAccess:  r.CanAccess(level),
			Action:     r.Action(level),
		}

		if s.Level == level {
			status := s.Status
			cards[i].Current = true
			cards[i].Status = &status
		}
	}

	return cards
}

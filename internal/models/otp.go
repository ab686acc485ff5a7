package models

import "time"

// OtpChallenge is ephemeral and lives only in the cache, keyed by phone number
type OtpChallenge struct {
	ID          string
	SellerID    string
	PhoneNumber string
	Code        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Attempts    int
	Consumed    bool
}

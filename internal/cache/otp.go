package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/redis/go-redis/v9"
)

// VerifyOutcome is the result of checking a code against the live challenge
type VerifyOutcome string

const (
	OutcomeVerified  VerifyOutcome = "verified"
	OutcomeMissing   VerifyOutcome = "missing"
	OutcomeExpired   VerifyOutcome = "expired"
	OutcomeMismatch  VerifyOutcome = "mismatch"
	OutcomeExhausted VerifyOutcome = "exhausted"
)

// issueScript replaces whatever challenge exists for the number in one step, so an older
// code can never validate once a newer one has been issued.
// Returns 0 without writing when the resend cooldown has not elapsed.
var issueScript = redis.NewScript(`
local cooldown = tonumber(ARGV[7])
if cooldown > 0 then
	local last = redis.call('HGET', KEYS[1], 'issued_at')
	if last and (tonumber(ARGV[4]) - tonumber(last)) < cooldown then
		return 0
	end
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1],
	'id', ARGV[1],
	'seller_id', ARGV[2],
	'code', ARGV[3],
	'issued_at', ARGV[4],
	'expires_at', ARGV[5],
	'attempts', 0,
	'consumed', 0)
redis.call('PEXPIRE', KEYS[1], ARGV[6])
return 1
`)

// verifyScript compares and consumes in one step. A mismatch leaves the challenge live.
var verifyScript = redis.NewScript(`
local f = redis.call('HMGET', KEYS[1], 'seller_id', 'code', 'expires_at', 'attempts', 'consumed')
if not f[1] or f[1] ~= ARGV[1] or f[5] == '1' then
	return 'missing'
end
if tonumber(ARGV[3]) > tonumber(f[3]) then
	return 'expired'
end
local max = tonumber(ARGV[4])
if max > 0 and tonumber(f[4]) >= max then
	return 'exhausted'
end
if f[2] ~= ARGV[2] then
	local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
	if max > 0 and attempts >= max then
		return 'exhausted'
	end
	return 'mismatch'
end
redis.call('HSET', KEYS[1], 'consumed', 1)
return 'verified'
`)

// ChallengeStore keeps at most one live OTP challenge per phone number in Redis.
// Expiry is decided by comparing expires_at at verify time; the key TTL only garbage
// collects, which is why it outlives the challenge by the retention period.
type ChallengeStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewChallengeStore(c *Cache, retention time.Duration) *ChallengeStore {
	return &ChallengeStore{
		client:    c.client,
		retention: retention,
	}
}

func challengeKey(phoneNumber string) string {
	return "otp:phone:" + phoneNumber
}

// Issue stores the challenge, superseding any previous one for the same number.
// It returns false if cooldown is positive and the previous challenge is too recent.
func (s *ChallengeStore) Issue(ctx context.Context, ch *models.OtpChallenge, cooldown time.Duration) (bool, error) {
	ttl := ch.ExpiresAt.Sub(ch.IssuedAt) + s.retention
	if ttl <= 0 {
		ttl = time.Second
	}

	issued, err := issueScript.Run(ctx, s.client,
		[]string{challengeKey(ch.PhoneNumber)},
		ch.ID,
		ch.SellerID,
		ch.Code,
		ch.IssuedAt.UnixMilli(),
		ch.ExpiresAt.UnixMilli(),
		ttl.Milliseconds(),
		cooldown.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("issue challenge: %w", err)
	}

	return issued == 1, nil
}

// Verify checks code against the live challenge the seller requested for the number.
// maxAttempts of zero disables the attempt limit.
func (s *ChallengeStore) Verify(ctx context.Context, sellerID, phoneNumber, code string, now time.Time, maxAttempts int) (VerifyOutcome, error) {
	outcome, err := verifyScript.Run(ctx, s.client,
		[]string{challengeKey(phoneNumber)},
		sellerID,
		code,
		now.UnixMilli(),
		maxAttempts,
	).Text()
	if err != nil {
		return "", fmt.Errorf("verify challenge: %w", err)
	}

	return VerifyOutcome(outcome), nil
}

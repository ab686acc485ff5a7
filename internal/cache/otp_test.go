package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ChallengeStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewChallengeStore(NewFromClient(client), 10*time.Minute), mr
}

func challenge(code string, issuedAt time.Time) *models.OtpChallenge {
	return &models.OtpChallenge{
		ID:          "ch-" + code,
		SellerID:    "seller-1",
		PhoneNumber: "0912345678",
		Code:        code,
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(time.Minute),
	}
}

func TestChallengeStore_VerifyOutcomes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	outcome, err := store.Verify(ctx, "seller-1", "0912345678", "123456", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissing, outcome)

	issued, err := store.Issue(ctx, challenge("123456", now), 0)
	require.NoError(t, err)
	require.True(t, issued)

	outcome, err = store.Verify(ctx, "seller-2", "0912345678", "123456", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissing, outcome)

	outcome, err = store.Verify(ctx, "seller-1", "0912345678", "654321", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMismatch, outcome)

	outcome, err = store.Verify(ctx, "seller-1", "0912345678", "123456", now.Add(time.Minute+time.Millisecond), 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExpired, outcome)

	outcome, err = store.Verify(ctx, "seller-1", "0912345678", "123456", now.Add(time.Minute), 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, outcome)

	outcome, err = store.Verify(ctx, "seller-1", "0912345678", "123456", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissing, outcome)
}

func TestChallengeStore_IssueSupersedes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Issue(ctx, challenge("111111", now), 0)
	require.NoError(t, err)
	_, err = store.Issue(ctx, challenge("222222", now), 0)
	require.NoError(t, err)

	outcome, err := store.Verify(ctx, "seller-1", "0912345678", "111111", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMismatch, outcome)

	outcome, err = store.Verify(ctx, "seller-1", "0912345678", "222222", now, 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, outcome)
}

func TestChallengeStore_Cooldown(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	issued, err := store.Issue(ctx, challenge("111111", now), 30*time.Second)
	require.NoError(t, err)
	require.True(t, issued)

	issued, err = store.Issue(ctx, challenge("222222", now.Add(10*time.Second)), 30*time.Second)
	require.NoError(t, err)
	require.False(t, issued)

	// the first code is still the live one
	outcome, err := store.Verify(ctx, "seller-1", "0912345678", "111111", now.Add(10*time.Second), 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, outcome)
}

func TestChallengeStore_MaxAttempts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Issue(ctx, challenge("123456", now), 0)
	require.NoError(t, err)

	outcomes := make([]VerifyOutcome, 0, 4)
	for _, code := range []string{"000000", "000001", "000002", "123456"} {
		outcome, err := store.Verify(ctx, "seller-1", "0912345678", code, now, 3)
		require.NoError(t, err)
		outcomes = append(outcomes, outcome)
	}

	assert.Equal(t, []VerifyOutcome{OutcomeMismatch, OutcomeMismatch, OutcomeExhausted, OutcomeExhausted}, outcomes)
}

func TestChallengeStore_KeyOutlivesChallenge(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.Issue(ctx, challenge("123456", now), 0)
	require.NoError(t, err)

	ttl := mr.TTL(challengeKey("0912345678"))
	assert.Equal(t, 11*time.Minute, ttl)

	mr.FastForward(12 * time.Minute)

	outcome, err := store.Verify(ctx, "seller-1", "0912345678", "123456", now.Add(12*time.Minute), 0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissing, outcome)
}

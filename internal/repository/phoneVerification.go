package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type PhoneVerificationRepository interface {
	// MarkVerified records that the seller proved possession of the number. If the seller's
	// verification record carries the same number, its phone fields are updated in the same
	// transaction.
	MarkVerified(ctx context.Context, sellerID, phoneNumber string, at time.Time) error

	// VerifiedAt returns when the seller last verified the number, nil if never
	VerifiedAt(ctx context.Context, sellerID, phoneNumber string) (*time.Time, error)
}

type PhoneVerificationRepositoryImpl struct {
	db *sqlx.DB
}

func NewPhoneVerificationRepository(db *sqlx.DB) PhoneVerificationRepository {
	return &PhoneVerificationRepositoryImpl{db: db}
}

func (repo *PhoneVerificationRepositoryImpl) MarkVerified(ctx context.Context, sellerID, phoneNumber string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO phone_verifications (seller_id, phone_number, verified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (seller_id, phone_number) DO UPDATE SET verified_at = EXCLUDED.verified_at`,
		sellerID, phoneNumber, at,
	)
	if err != nil {
		return fmt.Errorf("upsert phone verification: %w", err)
	}

	// bumping the version makes any review that read the record before this fail its guard
	// instead of writing the stale phone flags back
	_, err = tx.ExecContext(ctx, `
		UPDATE verifications SET
			is_phone_verified = TRUE,
			phone_verified_at = $3,
			phone_verification_deadline = NULL,
			version = version + 1,
			updated_at = $3
		WHERE seller_id = $1 AND phone_number = $2`,
		sellerID, phoneNumber, at,
	)
	if err != nil {
		return fmt.Errorf("update verification phone: %w", err)
	}

	return tx.Commit()
}

func (repo *PhoneVerificationRepositoryImpl) VerifiedAt(ctx context.Context, sellerID, phoneNumber string) (*time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var verifiedAt time.Time

	query := `SELECT verified_at FROM phone_verifications WHERE seller_id = $1 AND phone_number = $2`

	err := repo.db.GetContext(ctx, &verifiedAt, query, sellerID, phoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &verifiedAt, nil
}

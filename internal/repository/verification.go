package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Guard makes an update conditional on the row not having moved since it was read.
// Statuses, when set, must also contain the stored status.
type Guard struct {
	Version  int
	Statuses []models.VerificationStatus
}

type VerificationRepository interface {
	GetBySellerID(ctx context.Context, sellerID string) (*models.VerificationRecord, bool, error)
	GetOne(ctx context.Context, id string) (*models.VerificationRecord, bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRecord, int, error)
	History(ctx context.Context, id string) ([]models.VerificationRound, error)

	// Insert creates the seller's record. It returns false when another submission created
	// one first.
	Insert(ctx context.Context, rec *models.VerificationRecord, round *models.VerificationRound) (bool, error)

	// Update overwrites the record, its documents and appends the round in one transaction.
	// It returns false, writing nothing, when the guard no longer holds.
	Update(ctx context.Context, rec *models.VerificationRecord, guard Guard, round *models.VerificationRound) (bool, error)
}

const recordColumns = `
	id, seller_id, level, status, version, highest_approved_level,
	phone_number, is_phone_verified, phone_verified_at, phone_verification_deadline,
	full_name, id_number, date_of_birth, address, city, state, country,
	bank_name, bank_account_number, account_holder_name, is_bank_verified,
	reviewed_by, reviewed_at, rejection_reason, admin_notes,
	submitted_at, approved_at, rejected_at, expires_at, created_at, updated_at`

const documentColumns = `
	id, verification_id, position, document_type, document_number,
	file_name, file_url, storage_key, file_size, mime_type, created_at`

type VerificationRepositoryImpl struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &VerificationRepositoryImpl{db: db}
}

func (repo *VerificationRepositoryImpl) GetBySellerID(ctx context.Context, sellerID string) (*models.VerificationRecord, bool, error) {
	return repo.getWhere(ctx, "seller_id = $1", sellerID)
}

func (repo *VerificationRepositoryImpl) GetOne(ctx context.Context, id string) (*models.VerificationRecord, bool, error) {
	return repo.getWhere(ctx, "id = $1", id)
}

func (repo *VerificationRepositoryImpl) getWhere(ctx context.Context, condition string, arg any) (*models.VerificationRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec models.VerificationRecord

	query := `SELECT ` + recordColumns + ` FROM verifications WHERE ` + condition

	err := repo.db.GetContext(ctx, &rec, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec.Documents = []models.Document{}
	query = `SELECT ` + documentColumns + ` FROM verification_documents WHERE verification_id = $1 ORDER BY position`

	if err := repo.db.SelectContext(ctx, &rec.Documents, query, rec.ID); err != nil {
		return nil, false, err
	}

	return &rec, true, nil
}

// ListPending returns records awaiting a decision, newest submission first, and the
// total number of such records for pagination. Documents are not loaded.
func (repo *VerificationRepositoryImpl) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRecord, int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	reviewable := pq.Array([]string{string(models.StatusPending), string(models.StatusInReview)})

	var total int
	err := repo.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM verifications WHERE status = ANY($1)`, reviewable)
	if err != nil {
		return nil, 0, err
	}

	records := []models.VerificationRecord{}
	query := `
		SELECT ` + recordColumns + `
		FROM verifications
		WHERE status = ANY($1)
		ORDER BY submitted_at DESC, id
		LIMIT $2 OFFSET $3`

	if err := repo.db.SelectContext(ctx, &records, query, reviewable, limit, offset); err != nil {
		return nil, 0, err
	}

	for i := range records {
		records[i].Documents = []models.Document{}
	}

	return records, total, nil
}

func (repo *VerificationRepositoryImpl) History(ctx context.Context, id string) ([]models.VerificationRound, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT id, verification_id, version, event, level, status, actor_id, reason, snapshot, created_at
		FROM verification_rounds
		WHERE verification_id = $1
		ORDER BY version, created_at`

	rows, err := repo.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := []models.VerificationRound{}
	for rows.Next() {
		var (
			round    models.VerificationRound
			snapshot []byte
		)

		if err := rows.Scan(
			&round.ID,
			&round.VerificationID,
			&round.Version,
			&round.Event,
			&round.Level,
			&round.Status,
			&round.ActorID,
			&round.Reason,
			&snapshot,
			&round.CreatedAt,
		); err != nil {
			return nil, err
		}

		round.Snapshot = snapshot
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rounds, nil
}

const insertRecordQuery = `
	INSERT INTO verifications (
		id, seller_id, level, status, version, highest_approved_level,
		phone_number, is_phone_verified, phone_verified_at, phone_verification_deadline,
		full_name, id_number, date_of_birth, address, city, state, country,
		bank_name, bank_account_number, account_holder_name, is_bank_verified,
		reviewed_by, reviewed_at, rejection_reason, admin_notes,
		submitted_at, approved_at, rejected_at, expires_at, created_at, updated_at
	) VALUES (
		:id, :seller_id, :level, :status, :version, :highest_approved_level,
		:phone_number, :is_phone_verified, :phone_verified_at, :phone_verification_deadline,
		:full_name, :id_number, :date_of_birth, :address, :city, :state, :country,
		:bank_name, :bank_account_number, :account_holder_name, :is_bank_verified,
		:reviewed_by, :reviewed_at, :rejection_reason, :admin_notes,
		:submitted_at, :approved_at, :rejected_at, :expires_at, :created_at, :updated_at
	)
	ON CONFLICT (seller_id) DO NOTHING`

func (repo *VerificationRepositoryImpl) Insert(ctx context.Context, rec *models.VerificationRecord, round *models.VerificationRound) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer rollback(tx)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Version = 1

	res, err := tx.NamedExecContext(ctx, insertRecordQuery, rec)
	if err != nil {
		return false, fmt.Errorf("insert verification: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		rec.ID = ""
		rec.Version = 0
		return false, nil
	}

	if err := replaceDocuments(ctx, tx, rec); err != nil {
		return false, err
	}

	if err := appendRound(ctx, tx, rec, round); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

const updateRecordQuery = `
	UPDATE verifications SET
		level = :level,
		status = :status,
		version = version + 1,
		highest_approved_level = :highest_approved_level,
		phone_number = :phone_number,
		is_phone_verified = :is_phone_verified,
		phone_verified_at = :phone_verified_at,
		phone_verification_deadline = :phone_verification_deadline,
		full_name = :full_name,
		id_number = :id_number,
		date_of_birth = :date_of_birth,
		address = :address,
		city = :city,
		state = :state,
		country = :country,
		bank_name = :bank_name,
		bank_account_number = :bank_account_number,
		account_holder_name = :account_holder_name,
		is_bank_verified = :is_bank_verified,
		reviewed_by = :reviewed_by,
		reviewed_at = :reviewed_at,
		rejection_reason = :rejection_reason,
		admin_notes = :admin_notes,
		submitted_at = :submitted_at,
		approved_at = :approved_at,
		rejected_at = :rejected_at,
		expires_at = :expires_at,
		updated_at = :updated_at
	WHERE id = :id AND version = :expected_version`

// guardedRecord feeds the guard values to the named update next to the record columns
type guardedRecord struct {
	*models.VerificationRecord
	ExpectedVersion int            `db:"expected_version"`
	GuardStatuses   pq.StringArray `db:"guard_statuses"`
}

func (repo *VerificationRepositoryImpl) Update(ctx context.Context, rec *models.VerificationRecord, guard Guard, round *models.VerificationRound) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer rollback(tx)

	query := updateRecordQuery
	arg := guardedRecord{
		VerificationRecord: rec,
		ExpectedVersion:    guard.Version,
	}

	if len(guard.Statuses) > 0 {
		query += ` AND status = ANY(:guard_statuses)`
		for _, status := range guard.Statuses {
			arg.GuardStatuses = append(arg.GuardStatuses, string(status))
		}
	}

	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return false, fmt.Errorf("update verification: %w", err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		return false, nil
	}

	rec.Version = guard.Version + 1

	if err := replaceDocuments(ctx, tx, rec); err != nil {
		return false, err
	}

	if err := appendRound(ctx, tx, rec, round); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// replaceDocuments makes the stored documents match rec.Documents exactly, in order
func replaceDocuments(ctx context.Context, tx *sqlx.Tx, rec *models.VerificationRecord) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM verification_documents WHERE verification_id = $1`, rec.ID)
	if err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	query := `
		INSERT INTO verification_documents (` + documentColumns + `)
		VALUES (:id, :verification_id, :position, :document_type, :document_number,
			:file_name, :file_url, :storage_key, :file_size, :mime_type, :created_at)`

	for i := range rec.Documents {
		doc := &rec.Documents[i]
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = rec.UpdatedAt
		}
		doc.VerificationID = rec.ID
		doc.Position = i

		if _, err := tx.NamedExecContext(ctx, query, doc); err != nil {
			return fmt.Errorf("insert document %d: %w", i, err)
		}
	}

	return nil
}

func appendRound(ctx context.Context, tx *sqlx.Tx, rec *models.VerificationRecord, round *models.VerificationRound) error {
	if round == nil {
		return nil
	}

	round.ID = uuid.NewString()
	round.VerificationID = rec.ID
	round.Version = rec.Version
	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO verification_rounds (id, verification_id, version, event, level, status, actor_id, reason, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.ExecContext(ctx, query,
		round.ID,
		round.VerificationID,
		round.Version,
		round.Event,
		round.Level,
		round.Status,
		round.ActorID,
		round.Reason,
		string(round.Snapshot),
		round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append round: %w", err)
	}

	return nil
}

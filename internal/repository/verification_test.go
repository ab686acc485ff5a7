package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (VerificationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewVerificationRepository(sqlx.NewDb(db, "postgres")), mock
}

func sampleRecord() *models.VerificationRecord {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.VerificationRecord{
		ID:          "rec-1",
		SellerID:    "seller-1",
		Level:       models.LevelBasic,
		Status:      models.StatusApproved,
		Version:     3,
		PhoneNumber: "0912345678",
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
		Documents:   []models.Document{},
	}
}

func sampleRound() *models.VerificationRound {
	return &models.VerificationRound{
		Event:    models.RoundApproved,
		Level:    models.LevelBasic,
		Status:   models.StatusApproved,
		ActorID:  "admin-1",
		Snapshot: json.RawMessage(`{}`),
	}
}

func TestUpdateGuardMissWritesNothing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE verifications SET .* WHERE id = \$\d+ AND version = \$\d+ AND status = ANY\(\$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := sampleRecord()
	ok, err := repo.Update(context.Background(), rec, Guard{
		Version:  3,
		Statuses: []models.VerificationStatus{models.StatusPending, models.StatusInReview},
	}, sampleRound())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, rec.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReplacesDocumentsAndAppendsRound(t *testing.T) {
	repo, mock := newMockRepo(t)

	rec := sampleRecord()
	rec.Documents = []models.Document{{
		DocumentType: models.DocumentPassport,
		FileName:     "passport.png",
		FileURL:      "https://res.example.com/passport.png",
		StorageKey:   "verifications/abc",
	}}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE verifications SET .* WHERE id = \$\d+ AND version = \$\d+$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM verification_documents WHERE verification_id = \$1`).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO verification_documents`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO verification_rounds`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	round := sampleRound()
	ok, err := repo.Update(context.Background(), rec, Guard{Version: 3}, round)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, rec.Version)
	assert.Equal(t, 4, round.Version)
	assert.Equal(t, "rec-1", round.VerificationID)
	assert.Equal(t, "rec-1", rec.Documents[0].VerificationID)
	assert.NotEmpty(t, rec.Documents[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLosesToExistingRecord(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO verifications .* ON CONFLICT \(seller_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := sampleRecord()
	rec.ID = ""
	ok, err := repo.Insert(context.Background(), rec, sampleRound())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySellerIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM verifications WHERE seller_id = \$1`).
		WithArgs("seller-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, found, err := repo.GetBySellerID(context.Background(), "seller-404")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

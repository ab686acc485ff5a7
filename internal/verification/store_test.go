package verification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// memoryStore keeps records the way the SQL repositories do, guard semantics included
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*models.VerificationRecord
	rounds  map[string][]models.VerificationRound
	phones  map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: map[string]*models.VerificationRecord{},
		rounds:  map[string][]models.VerificationRound{},
		phones:  map[string]time.Time{},
	}
}

var (
	_ repository.VerificationRepository      = (*memoryStore)(nil)
	_ repository.PhoneVerificationRepository = (*memoryStore)(nil)
)

func (m *memoryStore) GetBySellerID(_ context.Context, sellerID string) (*models.VerificationRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.SellerID == sellerID {
			return rec.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryStore) GetOne(_ context.Context, id string) (*models.VerificationRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

func (m *memoryStore) ListPending(_ context.Context, limit, offset int) ([]models.VerificationRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []models.VerificationRecord
	for _, rec := range m.records {
		if isReviewable(rec.Status) {
			pending = append(pending, *rec.Clone())
		}
	}

	slices.SortFunc(pending, func(a, b models.VerificationRecord) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})

	total := len(pending)
	if offset >= total {
		return []models.VerificationRecord{}, total, nil
	}
	end := min(offset+limit, total)
	return pending[offset:end], total, nil
}

func (m *memoryStore) History(_ context.Context, id string) ([]models.VerificationRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]models.VerificationRound(nil), m.rounds[id]...), nil
}

func (m *memoryStore) Insert(_ context.Context, rec *models.VerificationRecord, round *models.VerificationRound) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.SellerID == rec.SellerID {
			return false, nil
		}
	}

	rec.ID = uuid.NewString()
	rec.Version = 1
	m.records[rec.ID] = rec.Clone()
	m.appendRound(rec, round)

	return true, nil
}

func (m *memoryStore) Update(_ context.Context, rec *models.VerificationRecord, guard repository.Guard, round *models.VerificationRound) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[rec.ID]
	if !ok || stored.Version != guard.Version {
		return false, nil
	}
	if len(guard.Statuses) > 0 && !slices.Contains(guard.Statuses, stored.Status) {
		return false, nil
	}

	rec.Version = guard.Version + 1
	m.records[rec.ID] = rec.Clone()
	m.appendRound(rec, round)

	return true, nil
}

func (m *memoryStore) appendRound(rec *models.VerificationRecord, round *models.VerificationRound) {
	round.ID = fmt.Sprintf("%s-round-%d", rec.ID, rec.Version)
	round.VerificationID = rec.ID
	round.Version = rec.Version
	m.rounds[rec.ID] = append(m.rounds[rec.ID], *round)
}

func (m *memoryStore) MarkVerified(_ context.Context, sellerID, phoneNumber string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phones[sellerID+"|"+phoneNumber] = at

	for _, rec := range m.records {
		if rec.SellerID == sellerID && rec.PhoneNumber == phoneNumber {
			rec.IsPhoneVerified = true
			rec.PhoneVerifiedAt = &at
			rec.PhoneVerificationDeadline = nil
			rec.Version++
		}
	}
	return nil
}

func (m *memoryStore) VerifiedAt(_ context.Context, sellerID, phoneNumber string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	at, ok := m.phones[sellerID+"|"+phoneNumber]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

// record returns the stored record as is, bypassing the effective status projection
func (m *memoryStore) record(sellerID string) *models.VerificationRecord {
	rec, _, _ := m.GetBySellerID(context.Background(), sellerID)
	return rec
}

package models

import (
	"encoding/json"
	"time"
)

type VerificationLevel string

const (
	LevelBasic    VerificationLevel = "BASIC"
	LevelStandard VerificationLevel = "STANDARD"
	LevelPremium  VerificationLevel = "PREMIUM"
)

type VerificationStatus string

const (
	// StatusPending is set on every submission, including resubmissions
	StatusPending VerificationStatus = "PENDING"

	// StatusInReview is an optional intermediate an admin may set before deciding.
	// It behaves exactly like StatusPending for eligibility.
	StatusInReview VerificationStatus = "IN_REVIEW"

	StatusApproved VerificationStatus = "APPROVED"
	StatusRejected VerificationStatus = "REJECTED"

	// StatusExpired is never written. Readers derive it from an approved record whose
	// expires_at has passed.
	StatusExpired VerificationStatus = "EXPIRED"
)

type DocumentType string

const (
	DocumentNationalID      DocumentType = "NATIONAL_ID"
	DocumentPassport        DocumentType = "PASSPORT"
	DocumentDriversLicense  DocumentType = "DRIVERS_LICENSE"
	DocumentBankStatement   DocumentType = "BANK_STATEMENT"
	DocumentBusinessLicense DocumentType = "BUSINESS_LICENSE"
	DocumentUtilityBill     DocumentType = "UTILITY_BILL"
)

// IsIdentity reports whether the document proves who the seller is
func (d DocumentType) IsIdentity() bool {
	switch d {
	case DocumentNationalID, DocumentPassport, DocumentDriversLicense:
		return true
	}
	return false
}

type Document struct {
	ID             string       `db:"id" json:"id"`
	VerificationID string       `db:"verification_id" json:"-"`
	Position       int          `db:"position" json:"-"`
	DocumentType   DocumentType `db:"document_type" json:"document_type"`
	DocumentNumber *string      `db:"document_number" json:"document_number,omitempty"`
	FileName       string       `db:"file_name" json:"file_name"`
	FileURL        string       `db:"file_url" json:"file_url"`
	StorageKey     string       `db:"storage_key" json:"-"`
	FileSize       *int64       `db:"file_size" json:"file_size,omitempty"`
	MimeType       *string      `db:"mime_type" json:"mime_type,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// VerificationRecord is the single mutable record a seller owns. It is overwritten in place
// on every submission and review; verification_rounds keeps the history.
type VerificationRecord struct {
	ID       string             `db:"id" json:"id"`
	SellerID string             `db:"seller_id" json:"seller_id"`
	Level    VerificationLevel  `db:"level" json:"level"`
	Status   VerificationStatus `db:"status" json:"status"`
	Version  int                `db:"version" json:"version"`

	HighestApprovedLevel *VerificationLevel `db:"highest_approved_level" json:"highest_approved_level,omitempty"`

	PhoneNumber               string     `db:"phone_number" json:"phone_number"`
	IsPhoneVerified           bool       `db:"is_phone_verified" json:"is_phone_verified"`
	PhoneVerifiedAt           *time.Time `db:"phone_verified_at" json:"phone_verified_at,omitempty"`
	PhoneVerificationDeadline *time.Time `db:"phone_verification_deadline" json:"phone_verification_deadline,omitempty"`

	FullName    *string    `db:"full_name" json:"full_name,omitempty"`
	IDNumber    *string    `db:"id_number" json:"id_number,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`
	State       *string    `db:"state" json:"state,omitempty"`
	Country     *string    `db:"country" json:"country,omitempty"`

	BankName          *string `db:"bank_name" json:"bank_name,omitempty"`
	BankAccountNumber *string `db:"bank_account_number" json:"bank_account_number,omitempty"`
	AccountHolderName *string `db:"account_holder_name" json:"account_holder_name,omitempty"`
	IsBankVerified    bool    `db:"is_bank_verified" json:"is_bank_verified"`

	Documents []Document `db:"-" json:"documents"`

	ReviewedBy      *string    `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	AdminNotes      *string    `db:"admin_notes" json:"admin_notes,omitempty"`

	SubmittedAt time.Time  `db:"submitted_at" json:"submitted_at"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	RejectedAt  *time.Time `db:"rejected_at" json:"rejected_at,omitempty"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep enough copy for a mutation to be applied without touching the original
func (r *VerificationRecord) Clone() *VerificationRecord {
	c := *r
	c.Documents = append([]Document(nil), r.Documents...)
	return &c
}

type RoundEvent string

const (
	RoundSubmitted RoundEvent = "SUBMITTED"
	RoundInReview  RoundEvent = "IN_REVIEW"
	RoundApproved  RoundEvent = "APPROVED"
	RoundRejected  RoundEvent = "REJECTED"
)

// VerificationRound is an immutable entry in a record's history. Rows are only ever appended.
type VerificationRound struct {
	ID             string             `db:"id" json:"id"`
	VerificationID string             `db:"verification_id" json:"verification_id"`
	Version        int                `db:"version" json:"version"`
	Event          RoundEvent         `db:"event" json:"event"`
	Level          VerificationLevel  `db:"level" json:"level"`
	Status         VerificationStatus `db:"status" json:"status"`
	ActorID        string             `db:"actor_id" json:"actor_id"`
	Reason         *string            `db:"reason" json:"reason,omitempty"`
	Snapshot       json.RawMessage    `db:"snapshot" json:"snapshot"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
}

// PhoneVerification tracks which numbers a seller has proven possession of,
// independently of whether a verification record exists yet.
type PhoneVerification struct {
	SellerID    string    `db:"seller_id"`
	PhoneNumber string    `db:"phone_number"`
	VerifiedAt  time.Time `db:"verified_at"`
}

package models

import (
	"io"
	"time"
)

// DocumentUpload is a file the seller attached to a submission, not yet stored anywhere
type DocumentUpload struct {
	DocumentType   DocumentType
	DocumentNumber string
	FileName       string
	MimeType       string
	Size           int64
	Content        io.Reader
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

// ReviewOutcome is published once an admin decision has been committed
type ReviewOutcome struct {
	EventID        string            `json:"event_id"`
	SellerID       string            `json:"seller_id"`
	VerificationID string            `json:"verification_id"`
	Decision       ReviewDecision    `json:"decision"`
	Level          VerificationLevel `json:"level"`
	Reason         *string           `json:"reason,omitempty"`
	ReviewedAt     time.Time         `json:"reviewed_at"`
}

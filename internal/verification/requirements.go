package verification

import (
	"fmt"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/validator"
)

// Column widths of the verifications and verification_documents tables
const (
	MaxNameLength           = 200
	MaxIDNumberLength       = 32
	MaxLocationLength       = 100
	MaxBankNameLength       = 100
	MaxAccountNumberLength  = 34
	MaxDocumentNumberLength = 64
	MaxFileNameLength       = 255
)

// Submission carries everything a seller sends for one round
type Submission struct {
	Level       models.VerificationLevel
	PhoneNumber string

	FullName    string
	IDNumber    string
	DateOfBirth *time.Time
	Address     string
	City        string
	State       string
	Country     string

	BankName          string
	BankAccountNumber string
	AccountHolderName string

	Documents []models.DocumentUpload
}

// Evidence is what the store knows that the submission itself cannot prove
type Evidence struct {
	// PhoneSatisfied is true when the number passed an OTP check, or when it is still inside
	// the re-verification grace window after a change
	PhoneSatisfied bool

	// DocumentTypes are the documents the record will hold once committed
	DocumentTypes []models.DocumentType
}

// CheckRequirements validates a submission against its declared level. Each tier requires
// everything the tiers below it require.
func CheckRequirements(s *Submission, ev Evidence) error {
	var v validator.Validator

	tier := levelIndex(s.Level)
	if tier < 0 {
		v.AddError("Level must be one of BASIC, STANDARD or PREMIUM")
		return &ValidationError{Problems: v.Errors}
	}

	phone := validator.NormalizePhoneNumber(s.PhoneNumber)
	v.Check(validator.NotBlank(phone), "Phone number is required")
	if validator.NotBlank(phone) {
		v.Check(validator.Matches(phone, validator.RgxPhoneNumber), "Phone number is not valid")
		v.Check(ev.PhoneSatisfied, "Phone number must be verified")
	}

	for _, doc := range s.Documents {
		v.Check(validator.NotBlank(doc.FileName), "Every document needs a file name")
		v.Check(validator.MaxRunes(doc.FileName, MaxFileNameLength), fmt.Sprintf("Document file names must not be more than %d characters", MaxFileNameLength))
		v.Check(validator.MaxRunes(doc.DocumentNumber, MaxDocumentNumberLength), fmt.Sprintf("Document numbers must not be more than %d characters", MaxDocumentNumberLength))
	}

	v.Check(validator.MaxRunes(s.FullName, MaxNameLength), fmt.Sprintf("Full name must not be more than %d characters", MaxNameLength))
	v.Check(validator.MaxRunes(s.City, MaxLocationLength), fmt.Sprintf("City must not be more than %d characters", MaxLocationLength))
	v.Check(validator.MaxRunes(s.State, MaxLocationLength), fmt.Sprintf("State must not be more than %d characters", MaxLocationLength))
	v.Check(validator.MaxRunes(s.Country, MaxLocationLength), fmt.Sprintf("Country must not be more than %d characters", MaxLocationLength))
	v.Check(validator.MaxRunes(s.BankName, MaxBankNameLength), fmt.Sprintf("Bank name must not be more than %d characters", MaxBankNameLength))
	v.Check(validator.MaxRunes(s.BankAccountNumber, MaxAccountNumberLength), fmt.Sprintf("Bank account number must not be more than %d characters", MaxAccountNumberLength))
	v.Check(validator.MaxRunes(s.AccountHolderName, MaxNameLength), fmt.Sprintf("Account holder name must not be more than %d characters", MaxNameLength))

	if tier >= 1 {
		v.Check(validator.NotBlank(s.IDNumber), "ID number is required")
		v.Check(validator.MaxRunes(s.IDNumber, MaxIDNumberLength), "ID number is too long")
		v.Check(hasIdentityDocument(ev.DocumentTypes), "At least one identity document is required")
	}

	if tier >= 2 {
		v.Check(validator.NotBlank(s.BankName), "Bank name is required")
		v.Check(validator.NotBlank(s.BankAccountNumber), "Bank account number is required")
		if validator.NotBlank(s.BankAccountNumber) {
			v.Check(validator.Matches(validator.DigitsOnly(s.BankAccountNumber), validator.RgxDigits), "Bank account number must contain digits")
		}
		v.Check(validator.NotBlank(s.AccountHolderName), "Account holder name is required")
	}

	if v.HasErrors() {
		return &ValidationError{Problems: v.Errors}
	}

	return nil
}

func hasIdentityDocument(types []models.DocumentType) bool {
	for _, t := range types {
		if t.IsIdentity() {
			return true
		}
	}
	return false
}

// ParseDocumentType accepts the upper-case names used on the wire
func ParseDocumentType(s string) (models.DocumentType, bool) {
	t := models.DocumentType(s)
	switch t {
	case models.DocumentNationalID, models.DocumentPassport, models.DocumentDriversLicense,
		models.DocumentBankStatement, models.DocumentBusinessLicense, models.DocumentUtilityBill:
		return t, true
	}
	return "", false
}

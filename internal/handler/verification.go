package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/sellerverify/internal/context"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/request"
	"github.com/cradoe/sellerverify/internal/response"
	"github.com/cradoe/sellerverify/internal/validator"
	"github.com/cradoe/sellerverify/internal/verification"
)

const (
	maxDocumentBytes   = 10 << 20
	maxSubmissionBytes = 50 << 20
	maxDocuments       = 5
)

var allowedDocumentTypes = []string{"image/jpeg", "image/png", "application/pdf"}

func (h *RouteHandler) HandleRequestPhoneChallenge(w http.ResponseWriter, r *http.Request) {
	seller := context.ContextGetAuthenticatedUser(r)

	var input struct {
		PhoneNumber string `json:"phone_number"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	expiresAt, err := h.Verification.RequestChallenge(r.Context(), seller.ID, input.PhoneNumber)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	data := map[string]any{
		"expires_at": expiresAt.Format(time.RFC3339),
	}

	err = response.JSONOkResponse(w, data, "Verification code sent", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleVerifyPhoneChallenge(w http.ResponseWriter, r *http.Request) {
	seller := context.ContextGetAuthenticatedUser(r)

	var input struct {
		PhoneNumber string `json:"phone_number"`
		Code        string `json:"code"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	err = h.Verification.VerifyChallenge(r.Context(), seller.ID, input.PhoneNumber, input.Code)
	if errors.Is(err, verification.ErrNotFound) {
		h.ErrHandler.BadRequest(w, r, errors.New("no active verification code for this number, request a new one"))
		return
	}
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	data := map[string]any{
		"verified": true,
	}

	err = response.JSONOkResponse(w, data, "Phone number verified", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleSubmitVerification accepts a multipart form: the level, the level's fields and the
// documents with a document_types entry per file, in the same order. document_numbers is optional.
func (h *RouteHandler) HandleSubmitVerification(w http.ResponseWriter, r *http.Request) {
	seller := context.ContextGetAuthenticatedUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

	err := r.ParseMultipartForm(maxDocumentBytes)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, errors.New("invalid request data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := r.MultipartForm

	sub := &verification.Submission{
		PhoneNumber:       formValue(form, "phone_number"),
		FullName:          formValue(form, "full_name"),
		IDNumber:          formValue(form, "id_number"),
		Address:           formValue(form, "address"),
		City:              formValue(form, "city"),
		State:             formValue(form, "state"),
		Country:           formValue(form, "country"),
		BankName:          formValue(form, "bank_name"),
		BankAccountNumber: formValue(form, "bank_account_number"),
		AccountHolderName: formValue(form, "account_holder_name"),
	}

	rawLevel := formValue(form, "level")
	if level, ok := verification.ParseLevel(rawLevel); ok {
		sub.Level = level
	} else {
		sub.Level = models.VerificationLevel(rawLevel)
	}

	var v validator.Validator

	if dob := formValue(form, "date_of_birth"); dob != "" {
		parsed, err := time.Parse(time.DateOnly, dob)
		v.Check(err == nil, "Date of birth must be in YYYY-MM-DD format")
		if err == nil {
			sub.DateOfBirth = &parsed
		}
	}

	uploads, closeFiles, problems := documentUploads(form)
	defer closeFiles()
	for _, problem := range problems {
		v.AddError(problem)
	}

	if v.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}
	sub.Documents = uploads

	rec, err := h.Verification.Submit(r.Context(), seller.ID, sub)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONCreatedResponse(w, rec, "Verification submitted for review")
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleGetMyVerification(w http.ResponseWriter, r *http.Request) {
	seller := context.ContextGetAuthenticatedUser(r)

	rec, err := h.Verification.GetMine(r.Context(), seller.ID)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, rec, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleGetMyLevels(w http.ResponseWriter, r *http.Request) {
	seller := context.ContextGetAuthenticatedUser(r)

	cards, err := h.Verification.Levels(r.Context(), seller.ID)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, cards, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// formValue reads a field sent either as name or name[]
func formValue(form *multipart.Form, name string) string {
	values := formValues(form, name)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func formValues(form *multipart.Form, name string) []string {
	if values, ok := form.Value[name]; ok {
		return values
	}
	return form.Value[name+"[]"]
}

func formFiles(form *multipart.Form, name string) []*multipart.FileHeader {
	if files, ok := form.File[name]; ok {
		return files
	}
	return form.File[name+"[]"]
}

// documentUploads opens every attached document and checks its type and size. The returned
// func closes whatever was opened and must be called once the uploads have been consumed.
func documentUploads(form *multipart.Form) ([]models.DocumentUpload, func(), []string) {
	files := formFiles(form, "documents")
	types := formValues(form, "document_types")
	numbers := formValues(form, "document_numbers")

	var (
		opened   []multipart.File
		uploads  []models.DocumentUpload
		problems []string
	)

	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if len(files) > maxDocuments {
		return nil, closeFiles, []string{fmt.Sprintf("At most %d documents can be attached", maxDocuments)}
	}
	if len(types) != len(files) {
		return nil, closeFiles, []string{"Every document needs a matching document type"}
	}

	for i, header := range files {
		docType, ok := verification.ParseDocumentType(strings.ToUpper(strings.TrimSpace(types[i])))
		if !ok {
			problems = append(problems, fmt.Sprintf("Document %d has an unknown document type", i+1))
			continue
		}

		if header.Size > maxDocumentBytes {
			problems = append(problems, fmt.Sprintf("Document %d must not be larger than 10MB", i+1))
			continue
		}

		var number string
		if i < len(numbers) {
			number = strings.TrimSpace(numbers[i])
		}

		if !validator.MaxRunes(header.Filename, verification.MaxFileNameLength) {
			problems = append(problems, fmt.Sprintf("Document %d file name must not be more than %d characters", i+1, verification.MaxFileNameLength))
			continue
		}
		if !validator.MaxRunes(number, verification.MaxDocumentNumberLength) {
			problems = append(problems, fmt.Sprintf("Document %d number must not be more than %d characters", i+1, verification.MaxDocumentNumberLength))
			continue
		}

		f, err := header.Open()
		if err != nil {
			problems = append(problems, fmt.Sprintf("Document %d could not be read", i+1))
			continue
		}
		opened = append(opened, f)

		mimeType, err := sniffContentType(f)
		if err != nil || !validator.In(mimeType, allowedDocumentTypes...) {
			problems = append(problems, fmt.Sprintf("Document %d must be a JPEG, PNG or PDF file", i+1))
			continue
		}

		uploads = append(uploads, models.DocumentUpload{
			DocumentType:   docType,
			DocumentNumber: number,
			FileName:       header.Filename,
			MimeType:       mimeType,
			Size:           header.Size,
			Content:        f,
		})
	}

	return uploads, closeFiles, problems
}

// sniffContentType detects the type from the first bytes and rewinds the file
func sniffContentType(f multipart.File) (string, error) {
	head := make([]byte, 512)

	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	mimeType := http.DetectContentType(head[:n])
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	return mimeType, nil
}

package handler

import (
	"net/http"
	"strings"

	"github.com/cradoe/sellerverify/internal/context"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/request"
	"github.com/cradoe/sellerverify/internal/response"
	"github.com/cradoe/sellerverify/internal/validator"
	"github.com/google/uuid"
)

func (h *RouteHandler) HandleListPendingVerifications(w http.ResponseWriter, r *http.Request) {
	query := retrieveUrlQueryValues(r)

	records, total, err := h.Verification.ListPending(r.Context(), query.Page, query.Limit)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	meta := response.NewPagination(query.Page, query.Limit, total)

	err = response.JSONPaginatedResponse(w, records, "", meta)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := verificationIDParam(r)
	if !ok {
		h.ErrHandler.NotFound(w, r)
		return
	}

	rec, err := h.Verification.Get(r.Context(), id)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, rec, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleVerificationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := verificationIDParam(r)
	if !ok {
		h.ErrHandler.NotFound(w, r)
		return
	}

	rounds, err := h.Verification.History(r.Context(), id)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, rounds, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleStartReview(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)

	id, ok := verificationIDParam(r)
	if !ok {
		h.ErrHandler.NotFound(w, r)
		return
	}

	rec, err := h.Verification.StartReview(r.Context(), id, admin.ID)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, rec, "Verification marked as in review", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleReviewVerification(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)

	id, ok := verificationIDParam(r)
	if !ok {
		h.ErrHandler.NotFound(w, r)
		return
	}

	var input struct {
		Decision   string              `json:"decision"`
		Reason     *string             `json:"reason"`
		AdminNotes *string             `json:"admin_notes"`
		Validator  validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	decision := models.ReviewDecision(strings.ToUpper(strings.TrimSpace(input.Decision)))

	input.Validator.Check(validator.In(decision, models.DecisionApprove, models.DecisionReject), "Decision must be APPROVE or REJECT")
	if input.Reason != nil {
		input.Validator.Check(validator.MaxRunes(*input.Reason, 500), "Reason must not be more than 500 characters")
	}
	if input.AdminNotes != nil {
		input.Validator.Check(validator.MaxRunes(*input.AdminNotes, 2000), "Admin notes must not be more than 2000 characters")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	rec, err := h.Verification.Review(r.Context(), id, admin.ID, decision, input.Reason, input.AdminNotes)
	if err != nil {
		h.ErrHandler.VerificationError(w, r, err)
		return
	}

	message := "Verification approved"
	if decision == models.DecisionReject {
		message = "Verification rejected"
	}

	err = response.JSONOkResponse(w, rec, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// verificationIDParam reads the {id} path segment. Anything that is not a UUID cannot name a record.
func verificationIDParam(r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

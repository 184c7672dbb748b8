// Package respond holds the encoding helpers shared by the resource handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
)

// MemberHeader names the family member performing a request.
const MemberHeader = "X-Registered-By"

// Member returns the family member named in the request header.
func Member(r *http.Request) models.OwnerID {
	return models.OwnerID(r.Header.Get(MemberHeader))
}

// RequireMember rejects writes whose MemberHeader does not name a family
// member, so every journal entry is attributed to a person.
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if member := Member(r); !member.IsPerson() {
				JSON(w, http.StatusBadRequest, api.Error{
					Code:    "invalid_member",
					Message: fmt.Sprintf("%s must name a family member, got %q", MemberHeader, member),
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Decode reads a JSON body into v. On failure it writes a 400 and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		JSON(w, http.StatusBadRequest, api.Error{Code: "invalid_body", Message: fmt.Sprintf("Invalid request body: %v", err)})
		return false
	}
	return true
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Error maps an operation error to a status code and writes it.
func Error(w http.ResponseWriter, err error) {
	status, code := Status(err)
	msg := err.Error()
	if errors.Is(err, apperrors.ErrConflict) {
		msg = "The records changed while saving, please try again"
	}
	if status == http.StatusInternalServerError {
		msg = "Internal error"
	}
	JSON(w, status, api.Error{Code: code, Message: msg})
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient_funds"
	case errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

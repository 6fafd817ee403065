package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	domainErrors "github.com/intelebee/connect/internal/domain/errors"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
}

var errorMappings = []errorMapping{
	{domainErrors.ErrEmailRequired, http.StatusBadRequest},
	{domainErrors.ErrUnsupportedBusinessType, http.StatusBadRequest},
	{domainErrors.ErrAccountIDRequired, http.StatusBadRequest},
	{domainErrors.ErrAccountTypeMismatch, http.StatusBadRequest},
	{domainErrors.ErrAccountNotChargeable, http.StatusUnprocessableEntity},
	{domainErrors.ErrChargeIDRequired, http.StatusBadRequest},
	{domainErrors.ErrMerchantIDRequired, http.StatusBadRequest},
	{domainErrors.ErrMerchantNotFound, http.StatusNotFound},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSuccess flattens payload into the success envelope:
// {"success": true, ...payload, "timestamp": <RFC3339>}.
func writeSuccess(w http.ResponseWriter, payload any) {
	body := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			_ = json.Unmarshal(raw, &body)
		}
	}
	body["success"] = true
	body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, body)
}

// writeError maps err onto the error envelope:
// {"error": <operation message>, "details": ..., "timestamp": <RFC3339>}.
// Validation failures report every violation; provider failures carry the
// upstream status and detail through.
func writeError(w http.ResponseWriter, message string, err error) {
	body := map[string]any{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	var validationErrs *domainErrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		body["details"] = validationErrs.Violations
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		body["details"] = map[string]any{"message": validationErr.Error()}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			body["details"] = map[string]any{"message": m.err.Error()}
			writeJSON(w, m.status, body)
			return
		}
	}

	var providerErr *domainErrors.ProviderError
	if errors.As(err, &providerErr) {
		details := map[string]any{"message": providerErr.Message}
		if providerErr.Code != "" {
			details["code"] = providerErr.Code
		}
		if providerErr.Type != "" {
			details["type"] = providerErr.Type
		}
		if providerErr.Details != nil {
			details["details"] = providerErr.Details
		}
		body["details"] = details
		writeJSON(w, providerErr.StatusCode, body)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	body["details"] = map[string]any{"message": err.Error()}
	writeJSON(w, http.StatusInternalServerError, body)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// Package handler exposes the validation pipeline over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hartono/salesimport/internal/domain"
	"github.com/hartono/salesimport/internal/middleware"
	"github.com/hartono/salesimport/internal/validate"
)

// ValidateHandler handles sales-order import validation requests.
type ValidateHandler struct {
	service *validate.Service
	logger  *slog.Logger
}

// NewValidateHandler creates a new validation handler.
func NewValidateHandler(service *validate.Service, logger *slog.Logger) *ValidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateHandler{
		service: service,
		logger:  logger,
	}
}

type acceptedResponse struct {
	Message string       `json:"message"`
	Data    domain.Batch `json:"data"`
}

type rejectedResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

type failureResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ValidateSalesOrders handles POST /api/validate-sales-order.
//
// Response codes:
//   - 200 OK: batch accepted; body carries the enriched, sanitized batch
//   - 400 Bad Request: batch rejected (field errors) or payload not a batch
//   - 5xx: the validator itself failed (catalog unreachable, panic); callers
//     should retry later, the data may well be fine
func (h *ValidateHandler) ValidateSalesOrders(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context(), h.logger)

	var batch domain.Batch
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&batch); err != nil {
		logger.Info("rejected malformed batch payload", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, failureResponse{
			Message: "Format data tidak valid.",
			Error:   "request body is not an order batch",
		})
		return
	}

	result, err := h.service.ValidateBatch(r.Context(), batch)
	if err != nil {
		logger.Error("batch validation failed", "error", err.Error(), "code", domain.ErrorCode(err))
		status := http.StatusInternalServerError
		if domain.ErrorCode(err) == domain.EUNAVAILABLE {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, failureResponse{
			Message: "Server error",
			Error:   domain.ErrorMessage(err),
		})
		return
	}

	if result.Status == validate.StatusRejected {
		writeJSON(w, http.StatusBadRequest, rejectedResponse{
			Message: "Ditemukan error validasi.",
			Errors:  result.Errors,
		})
		return
	}

	writeJSON(w, http.StatusOK, acceptedResponse{
		Message: "Validasi berhasil!",
		Data:    result.Orders,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

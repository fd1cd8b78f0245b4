package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/store"
	"github.com/xavierca1/leadboard/internal/usecase"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// statusForKind maps a classified CRM error onto the status this service
// answers with. Remote 5xx and transport failures surface as gateway errors.
func statusForKind(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindValidation:
		return http.StatusUnprocessableEntity
	case entity.KindInvalidRequest:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindConflict:
		return http.StatusConflict
	case entity.KindServerError:
		return http.StatusBadGateway
	case entity.KindNetworkError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrClosed) {
		writeErrorResponse(w, http.StatusServiceUnavailable, "ShuttingDown", "Service is shutting down")
		return
	}

	kind := entity.KindOf(err)
	resp := ErrorResponse{
		Error: entity.MessageOf(err, "An error occurred"),
		Code:  string(kind),
	}
	var verrs usecase.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "Validation failed"
		resp.Details = verrs.Fields()
	}
	writeJSON(w, statusForKind(kind), resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, string(entity.KindInvalidRequest), "Invalid request data")
		return false
	}
	return true
}

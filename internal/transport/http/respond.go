package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "samadhan/pkg/domain-errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError translates coded domain errors into HTTP statuses. Internal
// details never reach the response body; only the code and the safe message.
func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	message := ""
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message()
	}
	writeJSON(w, statusOf(code), errorResponse{Error: string(code), Message: message})
}

func statusOf(code domainerrors.Code) int {
	switch code {
	case domainerrors.CodeBadRequest:
		return http.StatusBadRequest
	case domainerrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeConflict:
		return http.StatusConflict
	case domainerrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case domainerrors.CodeInconsistentState:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

package stub

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/domain/types"
)

// Sentinel kinds for request errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBusy       = errors.New("generation queue is full")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ok answers with a successful envelope.
func ok[T any](w http.ResponseWriter, message string, result T) {
	writeJSON(w, http.StatusOK, types.Result[T]{
		Success:   true,
		Message:   message,
		Code:      http.StatusOK,
		Result:    result,
		Timestamp: time.Now().UnixMilli(),
	})
}

// fail answers with a failed envelope whose code matches the HTTP status.
func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, types.Result[any]{
		Success:   false,
		Message:   err.Error(),
		Code:      status,
		Timestamp: time.Now().UnixMilli(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, repository.ErrConflict), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

func writeBlob(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xenking/shopaholics/internal/advisor"
	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/product"
)

var errChatNotFound = errors.New("chat not found")

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Error{Code: status, Message: msg})
}

// fail maps err to a status code and writes it. Unexpected errors are logged
// and their text is not sent to the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}

func mapError(err error) (int, string) {
	var (
		mcErr  *csvio.MissingColumnsError
		reqErr *requestError
		valErr validator.ValidationErrors
		mbErr  *http.MaxBytesError
	)
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, errChatNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, csvio.ErrNoData):
		return http.StatusNotFound, "No data to export"
	case errors.Is(err, csvio.ErrMissingHeader),
		errors.Is(err, advisor.ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &mcErr):
		return http.StatusUnprocessableEntity, mcErr.Error()
	case errors.Is(err, csvio.ErrNoValidProducts):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.Error()
	case errors.As(err, &valErr):
		return http.StatusBadRequest, formatValidationError(valErr)
	case errors.As(err, &mbErr):
		return http.StatusRequestEntityTooLarge, "file is too large"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

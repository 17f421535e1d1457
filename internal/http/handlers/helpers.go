package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/logx"
)

// maxBody caps request payloads; attachment metadata is the largest one.
const maxBody = 1 << 20

// errStatus lists sentinel errors in match order.
var errStatus = []struct {
	err    error
	status int
}{
	{apperr.ErrInvalid, http.StatusBadRequest},
	{apperr.ErrNotFound, http.StatusNotFound},
	{apperr.ErrRejected, http.StatusConflict},
	{apperr.ErrConflict, http.StatusConflict},
}

type errResponse struct {
	Error string `json:"error"`
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("response encode failed", logx.String("request_id", requestID(r.Context())), logx.Err(err))
	}
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	logger.Warn("http error",
		logx.String("request_id", requestID(r.Context())),
		logx.String("path", r.URL.Path),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(logger, w, r, status, errResponse{Error: msg})
}

// writeAppError turns a usecase error into a JSON error response. Errors
// outside the apperr taxonomy are hidden behind a generic 500.
func writeAppError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errStatus {
		if errors.Is(err, m.err) {
			writeError(logger, w, r, m.status, err.Error())
			return
		}
	}
	logger.Error("unhandled error", logx.String("request_id", requestID(r.Context())), logx.Err(err))
	writeError(logger, w, r, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads exactly one JSON object into dst. On failure it has
// already written the response and returns false.
func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errTrailing
	}
	if err == nil {
		return true
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		writeError(logger, w, r, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		writeError(logger, w, r, http.StatusBadRequest, "request body is empty")
	case errors.Is(err, errTrailing):
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
	default:
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
	}
	return false
}

var errTrailing = errors.New("trailing data")

package common

import (
	"errors"
	"net/http"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/types"
	"go.uber.org/zap"
)

// HttpError carries the status code a handler wants returned. Any other error
// is a 500.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string { return e.Err.Error() }
func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(status int, err error) error {
	return &HttpError{Status: status, Err: err}
}

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error

func JsonHandler(trk types.Tracking, logger *zap.Logger, fn JsonHandlerFunc) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		setCorsHeaders(w, r)
		w.Header().Set("Content-Type", "application/json")

		err := fn(w, r, sessionId, jsoncompat.NewEncoder(w))
		if err != nil {
			status := http.StatusInternalServerError
			var httpErr *HttpError
			if errors.As(err, &httpErr) {
				status = httpErr.Status
				http.Error(w, httpErr.Error(), status)
			} else {
				http.Error(w, http.StatusText(status), status)
			}
			logger.Warn("error handling request",
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}
	}
}

func setCorsHeaders(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

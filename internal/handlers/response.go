package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dias221467/Language_Exchange/pkg/apperror"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
)

var errInvalidPayload = apperror.Validation("Invalid request payload")

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps classified errors to their status and message. Anything
// else is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		logger.Log.WithError(err).Error("Unhandled error")
		appErr = apperror.Internal(err)
	}

	body := map[string]interface{}{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["missingFields"] = appErr.Fields
	}
	writeJSON(w, appErr.Kind.HTTPStatus(), body)
}

// decodeJSON reads the request body into dst. An empty body leaves dst zeroed.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		logger.Log.WithError(err).Warn("Failed to decode request body")
		return errInvalidPayload.Wrap(err)
	}
	return nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/dci/pkg/errors"
)

type errorBody struct {
	Error struct {
		Code    errs.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errs.IsValidation(err):
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeCancelled:
		// client closed request
		return 499
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	writeJSON(w, statusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

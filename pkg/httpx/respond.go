// Package httpx contains the small amount of HTTP plumbing shared by every
// handler: JSON responses, error mapping and request payload parsing.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
)

var (
	ErrMalformedBody        = errors.New("malformed request body")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrBodyTooLarge         = errors.New("request body too large")
)

// Detail is the body of every non-validation error response.
type Detail struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code and a JSON body. Unknown errors are
// logged and reported as 500 without leaking their text.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	if v, ok := apperr.AsValidation(err); ok {
		body := make(map[string][]string, len(v.Fields))
		for k, msgs := range v.Fields {
			if k == "" {
				k = "non_field_errors"
			}
			body[k] = msgs
		}
		WriteJSON(w, http.StatusBadRequest, body)
		return
	}

	status, detail := classify(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Errorw("request failed", "err", err)
		}
		WriteJSON(w, status, Detail{Detail: detail})
		return
	}
	var d *apperr.Detailed
	if errors.As(err, &d) {
		WriteJSON(w, status, Detail{Detail: d.Detail, Code: d.Code})
		return
	}
	WriteJSON(w, status, Detail{Detail: detail})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication credentials were not provided."
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, "Malformed request."
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, "Unsupported media type in request."
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// MethodNotAllowed writes the 405 body used by the detail routes.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, Detail{Detail: `Method "` + r.Method + `" not allowed.`})
}

// NotFound writes the 404 body for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, Detail{Detail: "Not found."})
}

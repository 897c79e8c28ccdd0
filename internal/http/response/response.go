// Package response renders service results and domain errors as JSON.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"junqo/internal/common"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	body := errorBody{Error: errorPayload{Code: code, Message: "internal error"}}
	var domainErr *common.Error
	if errors.As(err, &domainErr) {
		body.Error.Message = domainErr.Message
		body.Error.Fields = domainErr.Fields
	}
	JSON(w, StatusOf(code), body)
}

// StatusOf maps a domain error code to its HTTP status.
func StatusOf(code common.Code) int {
	switch code {
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

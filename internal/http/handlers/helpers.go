package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/http/middleware"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return common.NewValidationError("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

// idFromPath extracts the path segment at index n, counting from the path
// root. /api/v1/offers/{id} puts the id at index 3.
func idFromPath(r *http.Request, n int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if n >= len(parts) {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "missing id"})
	}
	id, err := common.ParseUUID(parts[n])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func principal(r *http.Request) (ability.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return ability.Principal{}, common.NewError(common.CodeUnauthorized, "not authenticated", nil)
	}
	return p, nil
}

func parsePagination(r *http.Request) (offset, limit int) {
	query := r.URL.Query()
	if value := query.Get("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if value := query.Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return offset, limit
}

func queryUUID(r *http.Request, name string) (common.UUID, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return "", nil
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid "+name, map[string]string{name: "invalid uuid"})
	}
	return id, nil
}

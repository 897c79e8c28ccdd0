package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"junqo/internal/common"
	"junqo/internal/http/middleware"
	"junqo/internal/http/response"
)

type principalKey struct{}

var principalContextKey = principalKey{}

type Handler struct {
	schema graphql.Schema
}

func NewHandler(services Services) (*Handler, error) {
	schema, err := NewSchema(services)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// ServeHTTP executes the query with the authenticated principal in context.
// Domain error codes surface in the error extensions so clients keep the
// same taxonomy as the REST API.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeUnauthorized, "not authenticated", nil))
		return
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, common.NewValidationError("invalid request body", map[string]string{"body": err.Error()}))
		return
	}

	ctx := context.WithValue(r.Context(), principalContextKey, caller)
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})
	annotateErrors(result.Errors)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func annotateErrors(formatted []gqlerrors.FormattedError) {
	for i := range formatted {
		original := formatted[i].OriginalError()
		if wrapped, ok := original.(*gqlerrors.Error); ok {
			original = wrapped.OriginalError
		}
		if original == nil {
			continue
		}
		code := common.CodeOf(original)
		if formatted[i].Extensions == nil {
			formatted[i].Extensions = map[string]any{}
		}
		formatted[i].Extensions["code"] = string(code)
		formatted[i].Extensions["status"] = response.StatusOf(code)
	}
}

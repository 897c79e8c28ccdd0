package middleware

import (
	"context"
	"net/http"
	"strings"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/user"
	"junqo/internal/http/response"
	"junqo/internal/security"
)

type contextKey string

const ContextPrincipalKey contextKey = "principal"

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		userID, err := common.ParseUUID(claims.Subject)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		userType := user.Type(strings.ToUpper(strings.TrimSpace(claims.UserType)))
		if !user.ValidType(userType) {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user type", nil))
			return
		}
		principal := ability.Principal{ID: userID, Type: userType}
		ctx := context.WithValue(r.Context(), ContextPrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireType(types ...user.Type) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "not authenticated", nil))
				return
			}
			if principal.Type == user.TypeAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, t := range types {
				if principal.Type == t {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
		})
	}
}

func PrincipalFromContext(ctx context.Context) (ability.Principal, bool) {
	principal, ok := ctx.Value(ContextPrincipalKey).(ability.Principal)
	return principal, ok
}

package middleware

import (
	"net/http"

	"github.com/angelmondragon/qtyoffers/api/responses"
	"github.com/angelmondragon/qtyoffers/pkg/auth"
	pkgerrors "github.com/angelmondragon/qtyoffers/pkg/errors"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
)

// RequireRole lets the request through when the actor holds any of roles.
func RequireRole(logg *logger.Logger, roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "quantity offers require an admin or shop manager role").
					WithDetails(map[string]any{"role": actor.Role.String()}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

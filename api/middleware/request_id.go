package middleware

import (
	"net/http"

	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/requestid"
)

// RequestID echoes the caller's X-Request-Id when it is a uuid and mints one
// otherwise. The id lands on the response header, the context and every log
// line written for the request.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestid.Normalize(r.Header.Get(requestid.Header))
			w.Header().Set(requestid.Header, id)

			ctx := requestid.NewContext(r.Context(), id)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

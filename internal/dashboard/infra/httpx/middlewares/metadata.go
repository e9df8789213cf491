package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/httpmeta"
)

// AttachRequestMetadata copies the chi request id and the caller's
// idempotency key into the request context and echoes the request id back.
// Must run after middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(httpmeta.HeaderXIdempotencyKey)

		if requestID != "" {
			w.Header().Set(httpmeta.HeaderXRequestID, requestID)
		}
		ctx := httpmeta.WithRequestMeta(r.Context(), requestID, idempotencyKey)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

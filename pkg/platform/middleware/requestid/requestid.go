package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Header is the inbound and echoed request ID header.
const Header = "X-Request-ID"

const maxLen = 128

// Middleware propagates a caller-supplied request ID or mints one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(Header))
		if rid == "" || len(rid) > maxLen {
			rid = uuid.NewString()
		}
		w.Header().Set(Header, rid)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), rid)))
	})
}

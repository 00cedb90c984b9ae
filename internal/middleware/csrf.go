package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/nstepanov/passvault/internal/models"
)

// CSRF rejects state-changing requests whose X-CSRF-Token header does not
// match the anti-forgery token bound to the authenticated session. It must
// run after SessionAuth. Safe methods pass through untouched.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		sess := SessionFromContext(r.Context())
		if sess == nil {
			unauthorized(w, "missing session")
			return
		}

		token := r.Header.Get(CSRFHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(models.Response{Success: false, Message: "invalid anti-forgery token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

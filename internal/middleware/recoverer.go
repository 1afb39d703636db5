package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SergeyParamoshkin/bollywood/internal/errresponse"
	"github.com/SergeyParamoshkin/bollywood/internal/logging"
)

// Recoverer turns a handler panic into the regular JSON 500 through
// errresponse. http.ErrAbortHandler is re-raised so net/http can abort
// the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			// nolint
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logging.From(r.Context()).Errorw("panic recovered", "panic", rvr, "stack", string(debug.Stack()))
			errresponse.Respond(w, r, fmt.Errorf("panic: %v", rvr))
		}()

		next.ServeHTTP(w, r)
	})
}

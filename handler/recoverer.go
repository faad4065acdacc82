package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/render"

	"github.com/fox-one/pkg/logger"
)

// Recoverer recover from panics, log the stack and respond with a generic 500
func Recoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}

			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logger.FromContext(r.Context()).
				WithField("panic", rvr).
				WithField("stack", string(debug.Stack())).
				Errorln("handler panic")

			render.Error(w, r, core.ErrUnknown)
		}()

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

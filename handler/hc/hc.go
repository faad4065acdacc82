package hc

import (
	"net/http"
	"time"

	"github.com/ethrahere/curatoor/handler/render"

	"github.com/fox-one/pkg/store/db"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request, db may be nil
func Handle(ver string, database *db.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, database))
	return r
}

func handle(version string, database *db.DB) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		status := http.StatusOK
		dbStatus := "ok"

		if database != nil {
			if err := database.View().DB().PingContext(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				dbStatus = err.Error()
			}
		}

		render.Status(w, status, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"db":      dbStatus,
		})
	}
}

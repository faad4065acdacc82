package handler

import (
	"net/http"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/hc"
	"github.com/ethrahere/curatoor/handler/render"
	"github.com/ethrahere/curatoor/handler/rest"
	"github.com/ethrahere/curatoor/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	database *db.DB
	signers  core.SignerAPI
	users    core.UserStore
	userz    core.UserService
	version  string
}

// New new server function
func New(
	database *db.DB,
	signers core.SignerAPI,
	users core.UserStore,
	userz core.UserService,
	version string,
) Server {
	return Server{
		database: database,
		signers:  signers,
		users:    users,
		userz:    userz,
		version:  version,
	}
}

// Handler root handler with hc, metrics and the restful apis
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(Recoverer)
	mux.NotFound(render.NotFound)

	{
		//hc
		mux.Mount("/hc", hc.Handle(s.version, s.database))
	}

	{
		//metrics
		mux.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	{
		//restful api
		mux.Mount("/", s.HandleRestAPI())
	}

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	return rest.Handle(s.signers, s.users, s.userz)
}

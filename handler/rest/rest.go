package rest

import (
	"net/http"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(signers core.SignerAPI, users core.UserStore, userz core.UserService) http.Handler {
	router := chi.NewRouter()
	router.NotFound(render.NotFound)

	router.Route("/signer", func(r chi.Router) {
		r.Post("/request", requestSignerHandler(signers))
		r.Post("/confirm", confirmSignerHandler(signers))
		r.Get("/status", signerStatusHandler(signers))
	})

	router.Route("/users", func(r chi.Router) {
		r.Post("/", createUserHandler(userz))
		r.Get("/{address}", findUserHandler(users))
	})

	return router
}

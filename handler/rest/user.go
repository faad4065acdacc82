package rest

import (
	"net/http"
	"strings"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/param"
	"github.com/ethrahere/curatoor/handler/render"
	"github.com/ethrahere/curatoor/handler/views"
)

func createUserHandler(userz core.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Address              string      `json:"address"`
			FarcasterUsername    string      `json:"farcasterUsername"`
			FarcasterDisplayName string      `json:"farcasterDisplayName"`
			FarcasterFID         interface{} `json:"farcasterFid"`
			FarcasterPfpURL      string      `json:"farcasterPfpUrl"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, r, err)
			return
		}

		var profile *core.FarcasterProfile
		if params.FarcasterUsername != "" || params.FarcasterFID != nil {
			fid, err := parseFID(params.FarcasterFID)
			if err != nil {
				render.Error(w, r, core.ErrInvalidFID)
				return
			}

			profile = &core.FarcasterProfile{
				Username:    params.FarcasterUsername,
				DisplayName: params.FarcasterDisplayName,
				FID:         fid,
				PfpURL:      params.FarcasterPfpURL,
			}
		}

		user, err := userz.GetOrCreate(ctx, params.Address, profile)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		render.JSON(w, views.UserView(user))
	}
}

func findUserHandler(users core.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		address := strings.ToLower(param.String(r, "address"))
		user, err := users.Find(ctx, address)
		if err != nil {
			render.Error(w, r, core.ErrPersistence.With(err))
			return
		}

		if user.ID == 0 {
			render.Error(w, r, core.ErrUserNotFound)
			return
		}

		render.JSON(w, views.UserView(user))
	}
}

package rest

import (
	"net/http"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/handler/param"
	"github.com/ethrahere/curatoor/handler/render"
	"github.com/ethrahere/curatoor/handler/views"
)

func requestSignerHandler(signers core.SignerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Address string `json:"address"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, r, err)
			return
		}

		req, err := signers.Request(ctx, params.Address)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		render.JSON(w, views.SignerRequestView(req))
	}
}

func confirmSignerHandler(signers core.SignerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Address    string      `json:"address"`
			FID        interface{} `json:"fid"`
			SignerUUID string      `json:"signerUuid"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, r, err)
			return
		}

		// fid arrives as a number or a numeric string
		fid, err := parseFID(params.FID)
		if err != nil {
			render.Error(w, r, core.ErrInvalidFID)
			return
		}

		status, err := signers.Confirm(ctx, core.ConfirmInput{
			Address:    params.Address,
			FID:        fid,
			SignerUUID: params.SignerUUID,
		})
		if err != nil {
			render.Error(w, r, err)
			return
		}

		render.JSON(w, views.SignerStatusView(status))
	}
}

func signerStatusHandler(signers core.SignerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Address string `json:"address"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, r, err)
			return
		}

		status, err := signers.Status(ctx, params.Address)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		render.JSON(w, views.SignerStatusView(status))
	}
}

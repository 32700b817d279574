package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func dashboard(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	rows, err := ctx.db.Dashboard(ctx.User)
	if err != nil {
		return err
	}

	return writeSuccess(w, rows)
}

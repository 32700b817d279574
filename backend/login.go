package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	if err := ctx.Login(body.Email, body.Password); err != nil {
		return err // is sqldb.ErrAuth if email or password is wrong
	}

	return writeSuccess(w, userJSON(ctx.User))
}

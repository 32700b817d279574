package backend

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/copydesk/auth"
	"github.com/wansing/copydesk/core"
)

type userData struct {
	ID    int          `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name"`
	Roles auth.RoleSet `json:"roles"`
}

func userJSON(u auth.User) userData {
	return userData{
		ID:    u.ID(),
		Email: u.Email(),
		Name:  u.Name(),
		Roles: u.Roles(),
	}
}

func registration(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.UsersWriteable() {
		return ErrReadOnly
	}

	var body struct {
		Email    string   `json:"email"`
		Name     string   `json:"name"`
		Password string   `json:"password"`
		Roles    []string `json:"roles"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	if body.Email == "" {
		return core.ValidationError{Msg: "email is required"}
	}
	if body.Password == "" {
		return core.ValidationError{Msg: "password is required"}
	}

	roles, err := auth.ParseRoles(strings.Join(body.Roles, ","))
	if err != nil {
		return core.ValidationError{Msg: err.Error()}
	}

	u, err := ctx.db.InsertUser(body.Email, body.Name, roles)
	if err != nil {
		return err
	}

	if err := ctx.db.SetPassword(u, body.Password); err != nil {
		return err
	}

	return writeSuccess(w, userJSON(u))
}

func userList(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	users, err := ctx.db.GetAllUsers(100000, 0) // assuming there are not more than 100k users
	if err != nil {
		return err
	}

	var list = make([]userData, len(users))
	for i, u := range users {
		list[i] = userJSON(u)
	}

	return writeSuccess(w, list)
}

func userByEmail(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	u, err := ctx.db.GetUserByEmail(params.ByName("email"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.ValidationError{Msg: "unknown user " + params.ByName("email")}
		}
		return err
	}

	return writeSuccess(w, userJSON(u))
}

// profileDetails returns the profile of the logged-in user.
func profileDetails(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return writeSuccess(w, userJSON(ctx.User))
}

// profileUpdate changes a user's password and, for admins, their role set.
// Everyone may change their own password by supplying the old one. Admins
// may select another user by email and reset their password without it.
func profileUpdate(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.UsersWriteable() {
		return ErrReadOnly
	}

	var body struct {
		Email       string   `json:"email"`
		OldPassword string   `json:"oldPassword"`
		NewPassword string   `json:"newPassword"`
		Roles       []string `json:"roles"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	var isAdmin = ctx.User.Roles().Contains(auth.Admin)

	var selected auth.User = ctx.User
	if body.Email != "" && body.Email != ctx.User.Email() {
		if !isAdmin {
			return core.PermissionError{}
		}
		u, err := ctx.db.GetUserByEmail(body.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ValidationError{Msg: "unknown user " + body.Email}
			}
			return err
		}
		selected = u
	}

	if newPass := strings.TrimSpace(body.NewPassword); newPass != "" {
		if isAdmin && selected.ID() != ctx.User.ID() {
			if err := ctx.db.SetPassword(selected, newPass); err != nil {
				return err
			}
		} else {
			// is sqldb.ErrAuth if the old password is wrong
			if err := ctx.db.ChangePassword(selected, body.OldPassword, newPass); err != nil {
				return err
			}
		}
	}

	if body.Roles != nil {
		if !isAdmin {
			return core.PermissionError{}
		}
		roles, err := auth.ParseRoles(strings.Join(body.Roles, ","))
		if err != nil {
			return core.ValidationError{Msg: err.Error()}
		}
		if err := ctx.db.SetRoles(selected, roles); err != nil {
			return err
		}
	}

	return writeSuccess(w, userJSON(selected))
}

func deleteUser(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.UsersWriteable() {
		return ErrReadOnly
	}
	if !ctx.User.Roles().Contains(auth.Admin) {
		return core.PermissionError{}
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}
	if id == ctx.User.ID() {
		return core.ValidationError{Msg: "you can not delete yourself"}
	}

	u, err := ctx.db.GetUser(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.NotFoundError{Kind: "user", ID: id}
		}
		return err
	}

	if err := ctx.db.Delete(u); err != nil {
		return err
	}

	return writeSuccess(w, nil)
}

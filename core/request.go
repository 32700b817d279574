package core

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/copydesk/auth"
)

// A Request is created by CoreDB.NewRequest.
type Request struct {
	db   *CoreDB
	User auth.User

	writer  http.ResponseWriter
	request *http.Request
}

// NewRequest creates a Request with the given http.ResponseWriter and
// http.Request. If a user is logged in, it sets Request.User.
func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}

	if uid := c.SessionManager.GetInt(httpreq.Context(), "uid"); uid != 0 {
		u, err := c.GetUser(uid)
		if u != nil && err == nil {
			req.User = u
		}
		// ignore errors
	}

	return req
}

// Login tries to log in a user. On success, the user id is stored in the
// session.
func (req *Request) Login(email string, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	if u, err := req.db.LoginUser(email, enteredPass); err == nil {
		req.User = u
	} else {
		return err // is ErrAuth if email or enteredPass is wrong
	}
	req.db.SessionManager.Put(req.request.Context(), "uid", req.User.ID())
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// Logout removes the user id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.db.SessionManager.Remove(req.request.Context(), "uid")
	}
	req.Cleanup()
}

// Destroys the session (which means re-setting the cookie with zero
// lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.db.SessionManager
	if sessMan.Status(req.request.Context()) == scs.Modified && len(sessMan.Keys(req.request.Context())) == 0 {
		_ = sessMan.Destroy(req.request.Context())
	}
}

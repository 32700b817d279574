// Package backend exposes the workflow engine as a JSON API.
package backend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/copydesk/core"
	"github.com/wansing/copydesk/sqldb"
)

// ErrReadOnly means the backing store does not accept writes at the moment.
var ErrReadOnly = errors.New("the database is read-only")

// we need the CoreDB in the backend
type context struct {
	*core.Request
	db *core.CoreDB
}

func (ctx *context) UsersWriteable() bool {
	return ctx.db.UserDB.Writeable()
}

func (ctx *context) ProjectsWriteable() bool {
	return ctx.db.ProjectDB.Writeable()
}

func (ctx *context) TopicsWriteable() bool {
	return ctx.db.TopicDB.Writeable() && ctx.db.WorkflowDB.Writeable()
}

func (ctx *context) ArticlesWriteable() bool {
	return ctx.db.ArticleDB.Writeable()
}

func middleware(db *core.CoreDB, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			writeFail(w, http.StatusUnauthorized, "please log in")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			writeError(w, err)
		}
	}
}

// The envelope mirrors what clients of the old system expect: a status
// field saying Success or Failed, plus either the payload or a message.

func writeSuccess(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(struct {
		Status string      `json:"status"`
		Data   interface{} `json:"data,omitempty"`
	}{
		Status: "Success",
		Data:   data,
	})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{
		Status:  "Failed",
		Message: message,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch err.(type) {
	case core.ValidationError:
		writeFail(w, http.StatusBadRequest, err.Error())
	case core.NotFoundError:
		writeFail(w, http.StatusNotFound, err.Error())
	case core.PermissionError:
		writeFail(w, http.StatusForbidden, err.Error())
	case core.RoleMismatchError:
		writeFail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		if err == sqldb.ErrAuth {
			writeFail(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err == ErrReadOnly {
			writeFail(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeFail(w, http.StatusInternalServerError, err.Error())
	}
}

func readJSON(req *http.Request, dst interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		return core.ValidationError{Msg: "invalid request body"}
	}
	return nil
}

func NewRouter(db *core.CoreDB) http.Handler {

	var router = httprouter.New()

	// public
	router.POST("/registration", middleware(db, false, registration))
	router.POST("/login", middleware(db, false, login))
	router.GET("/logout", middleware(db, false, logout))

	// private
	router.GET("/viewUserList", middleware(db, true, userList))
	router.POST("/getUserByEmail/:email", middleware(db, true, userByEmail))
	router.POST("/profileDetails", middleware(db, true, profileDetails))
	router.POST("/profileUpdate", middleware(db, true, profileUpdate))
	router.DELETE("/deleteUser/:id", middleware(db, true, deleteUser))

	router.POST("/addProject", middleware(db, true, addProject))
	router.GET("/viewProjectList", middleware(db, true, projectList))
	router.PUT("/updateProject/:id", middleware(db, true, updateProject))
	router.DELETE("/deleteProject/:id", middleware(db, true, deleteProject))

	router.POST("/addTopic", middleware(db, true, addTopic))
	router.GET("/viewTopicList", middleware(db, true, topicList))
	router.PUT("/updateTopic/:id", middleware(db, true, updateTopic))
	router.DELETE("/deleteTopic/:id", middleware(db, true, deleteTopic))
	router.POST("/assignTopic/:id", middleware(db, true, assignTopic))

	router.GET("/viewArticleList", middleware(db, true, articleList))
	router.PUT("/updateArticle/:id", middleware(db, true, updateArticle))
	router.DELETE("/deleteArticle/:id", middleware(db, true, deleteArticle))

	router.GET("/getDashboardData", middleware(db, true, dashboard))

	return router
}

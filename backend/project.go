package backend

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/copydesk/core"
)

type projectData struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Word      int    `json:"word"`
	Private   bool   `json:"private"`
	CreatedBy string `json:"createdBy"`
}

func projectJSON(p core.DBProject) projectData {
	return projectData{
		ID:        p.ID(),
		Name:      p.Name(),
		Word:      p.Word(),
		Private:   p.Private(),
		CreatedBy: p.CreatedBy(),
	}
}

func idParam(params httprouter.Params) (int, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return 0, core.ValidationError{Msg: "invalid id"}
	}
	return id, nil
}

func addProject(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.ProjectsWriteable() {
		return ErrReadOnly
	}
	if !core.Allowed(core.OpManageProject, ctx.User) {
		return core.PermissionError{}
	}

	var body struct {
		Name    string `json:"name"`
		Word    int    `json:"word"`
		Private bool   `json:"private"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	if body.Name == "" {
		return core.ValidationError{Msg: "name is required"}
	}

	p, err := ctx.db.InsertProject(body.Name, body.Word, body.Private, ctx.User.Email())
	if err != nil {
		return err
	}

	return writeSuccess(w, projectJSON(p))
}

func projectList(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	projects, err := ctx.db.GetAllProjects(100000, 0) // assuming there are not more than 100k projects
	if err != nil {
		return err
	}

	var list = make([]projectData, len(projects))
	for i, p := range projects {
		list[i] = projectJSON(p)
	}

	return writeSuccess(w, list)
}

func updateProject(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.ProjectsWriteable() {
		return ErrReadOnly
	}
	if !core.Allowed(core.OpManageProject, ctx.User) {
		return core.PermissionError{}
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	p, err := ctx.db.GetProject(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.NotFoundError{Kind: "project", ID: id}
		}
		return err
	}

	var body struct {
		Name    string `json:"name"`
		Word    int    `json:"word"`
		Private bool   `json:"private"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	if body.Name == "" {
		return core.ValidationError{Msg: "name is required"}
	}

	if err := ctx.db.UpdateProject(p, body.Name, body.Word, body.Private); err != nil {
		return err
	}

	p, err = ctx.db.GetProject(id)
	if err != nil {
		return err
	}

	return writeSuccess(w, projectJSON(p))
}

func deleteProject(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.ProjectsWriteable() {
		return ErrReadOnly
	}
	if !core.Allowed(core.OpManageProject, ctx.User) {
		return core.PermissionError{}
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	p, err := ctx.db.GetProject(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.NotFoundError{Kind: "project", ID: id}
		}
		return err
	}

	if err := ctx.db.DeleteProject(p); err != nil {
		return err
	}

	return writeSuccess(w, nil)
}

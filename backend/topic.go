package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/copydesk/core"
)

type topicData struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	Keywords            []string `json:"keywords"`
	Month               string   `json:"month"`
	WordCount           int      `json:"wordCount"`
	Type                string   `json:"type"`
	ProjectID           int      `json:"projectId"`
	Status              string   `json:"status"`
	ResearchSubmittedAt int64    `json:"researchSubmittedAt"`
	AssignedTo          int      `json:"assignedTo"`
	AdminAssignedAt     int64    `json:"adminAssignedAt"`
	CreatedBy           string   `json:"createdBy"`
}

func topicJSON(t core.DBTopic) (topicData, error) {

	keywords, err := t.Keywords()
	if err != nil {
		return topicData{}, err
	}

	return topicData{
		ID:                  t.ID(),
		Title:               t.Title(),
		Keywords:            keywords,
		Month:               t.Month(),
		WordCount:           t.WordCount(),
		Type:                string(t.Type()),
		ProjectID:           t.ProjectID(),
		Status:              string(t.Status()),
		ResearchSubmittedAt: t.ResearchSubmittedAt(),
		AssignedTo:          t.AssignedTo(),
		AdminAssignedAt:     t.AdminAssignedAt(),
		CreatedBy:           t.CreatedBy(),
	}, nil
}

func addTopic(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.TopicsWriteable() {
		return ErrReadOnly
	}

	var body struct {
		Title     string   `json:"title"`
		Keywords  []string `json:"keywords"`
		Month     string   `json:"month"`
		WordCount int      `json:"wordCount"`
		Type      string   `json:"type"`
		ProjectID int      `json:"projectId"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	t, err := ctx.db.ProposeTopic(ctx.User, core.TopicDraft{
		Title:     body.Title,
		Keywords:  body.Keywords,
		Month:     body.Month,
		WordCount: body.WordCount,
		Type:      core.TopicType(body.Type),
		ProjectID: body.ProjectID,
	})
	if err != nil {
		return err
	}

	data, err := topicJSON(t)
	if err != nil {
		return err
	}
	return writeSuccess(w, data)
}

func topicList(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !core.Allowed(core.OpListTopics, ctx.User) {
		return core.PermissionError{}
	}

	topics, err := ctx.db.GetAllTopics(100000, 0) // assuming there are not more than 100k topics
	if err != nil {
		return err
	}

	var list = make([]topicData, 0, len(topics))
	for _, t := range topics {
		data, err := topicJSON(t)
		if err != nil {
			return err
		}
		list = append(list, data)
	}

	return writeSuccess(w, list)
}

func updateTopic(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.TopicsWriteable() {
		return ErrReadOnly
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	// pointer fields distinguish "absent" from "zero"
	var body struct {
		Title      *string  `json:"title"`
		Keywords   []string `json:"keywords"`
		Month      *string  `json:"month"`
		WordCount  *int     `json:"wordCount"`
		Type       *string  `json:"type"`
		ProjectID  *int     `json:"projectId"`
		Status     *string  `json:"status"`
		AssignedTo *int     `json:"assignedTo"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	var patch = core.TopicPatch{
		Title:      body.Title,
		Keywords:   body.Keywords,
		Month:      body.Month,
		WordCount:  body.WordCount,
		ProjectID:  body.ProjectID,
		AssignedTo: body.AssignedTo,
	}
	if body.Type != nil {
		var typ = core.TopicType(*body.Type)
		patch.Type = &typ
	}
	if body.Status != nil {
		var status = core.TopicStatus(*body.Status)
		patch.Status = &status
	}

	t, err := ctx.db.UpdateTopic(ctx.User, id, patch)
	if err != nil {
		return err
	}

	data, err := topicJSON(t)
	if err != nil {
		return err
	}
	return writeSuccess(w, data)
}

func deleteTopic(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.TopicsWriteable() {
		return ErrReadOnly
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	if err := ctx.db.DeleteTopic(ctx.User, id); err != nil {
		return err
	}

	return writeSuccess(w, nil)
}

func assignTopic(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.TopicsWriteable() {
		return ErrReadOnly
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	t, err := ctx.db.AssignTopicByEmail(ctx.User, id, body.Email)
	if err != nil {
		return err
	}

	data, err := topicJSON(t)
	if err != nil {
		return err
	}
	return writeSuccess(w, data)
}

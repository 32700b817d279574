package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/copydesk/core"
)

type articleData struct {
	ID                int    `json:"id"`
	TopicID           int    `json:"topicId"`
	ProjectID         int    `json:"projectId"`
	WriterID          int    `json:"writer"`
	Publisher         string `json:"publisher"`
	ContentLink       string `json:"contentLink"`
	PublishLink       string `json:"publishLink"`
	Status            string `json:"status"`
	WriterSubmittedAt int64  `json:"writerSubmittedAt"`
	PublishedAt       int64  `json:"publishedAt"`
}

func articleJSON(a core.DBArticle) articleData {
	return articleData{
		ID:                a.ID(),
		TopicID:           a.TopicID(),
		ProjectID:         a.ProjectID(),
		WriterID:          a.WriterID(),
		Publisher:         a.Publisher(),
		ContentLink:       a.ContentLink(),
		PublishLink:       a.PublishLink(),
		Status:            string(a.Status()),
		WriterSubmittedAt: a.WriterSubmittedAt(),
		PublishedAt:       a.PublishedAt(),
	}
}

// articleList returns the articles the caller may see, which depends on
// their roles.
func articleList(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	articles, err := ctx.db.VisibleArticles(ctx.User)
	if err != nil {
		return err
	}

	var list = make([]articleData, len(articles))
	for i, a := range articles {
		list[i] = articleJSON(a)
	}

	return writeSuccess(w, list)
}

func updateArticle(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.ArticlesWriteable() {
		return ErrReadOnly
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	var body struct {
		ContentLink string `json:"contentLink"`
		PublishLink string `json:"publishLink"`
	}
	if err := readJSON(req, &body); err != nil {
		return err
	}

	a, err := ctx.db.UpdateArticle(ctx.User, id, core.ArticleUpdate{
		ContentLink: body.ContentLink,
		PublishLink: body.PublishLink,
	})
	if err != nil {
		return err
	}

	return writeSuccess(w, articleJSON(a))
}

func deleteArticle(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.ArticlesWriteable() {
		return ErrReadOnly
	}

	id, err := idParam(params)
	if err != nil {
		return err
	}

	if err := ctx.db.DeleteArticle(ctx.User, id); err != nil {
		return err
	}

	return writeSuccess(w, nil)
}

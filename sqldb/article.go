package sqldb

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/copydesk/core"
)

type article struct {
	id                int
	topicID           int
	projectID         int
	writerID          int
	publisher         string
	contentLink       string
	publishLink       string
	status            string
	writerSubmittedAt int64
	publishedAt       int64
}

func (a *article) ID() int {
	return a.id
}

func (a *article) TopicID() int {
	return a.topicID
}

func (a *article) ProjectID() int {
	return a.projectID
}

func (a *article) WriterID() int {
	return a.writerID
}

func (a *article) Publisher() string {
	return a.publisher
}

func (a *article) ContentLink() string {
	return a.contentLink
}

func (a *article) PublishLink() string {
	return a.publishLink
}

func (a *article) Status() core.ArticleStatus {
	return core.ArticleStatus(a.status)
}

func (a *article) WriterSubmittedAt() int64 {
	return a.writerSubmittedAt
}

func (a *article) PublishedAt() int64 {
	return a.publishedAt
}

var articleCols = []string{"id", "topicId", "projectId", "writer", "publisher", "contentLink", "publishLink", "status", "writerSubmittedAt", "publishedAt"}

func scanArticle(rows *sql.Rows) (*article, error) {
	var a = &article{}
	err := rows.Scan(&a.id, &a.topicID, &a.projectID, &a.writerID, &a.publisher, &a.contentLink, &a.publishLink, &a.status, &a.writerSubmittedAt, &a.publishedAt)
	return a, err
}

type ArticleDB struct {
	*sql.DB
	delete     *sql.Stmt
	get        *sql.Stmt
	getByTopic *sql.Stmt
	getAll     *sql.Stmt
}

func NewArticleDB(db *sql.DB) *ArticleDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS article (
			id INTEGER PRIMARY KEY,
			topicId int(11) NOT NULL,
			projectId int(11) NOT NULL,
			writer int(11) NOT NULL,
			publisher varchar(128) NOT NULL DEFAULT '',
			contentLink varchar(1024) NOT NULL DEFAULT '',
			publishLink varchar(1024) NOT NULL DEFAULT '',
			status varchar(16) NOT NULL DEFAULT 'assigned',
			writerSubmittedAt bigint NOT NULL DEFAULT 0,
			publishedAt bigint NOT NULL DEFAULT 0,
			UNIQUE(topicId)
		);`)

	var selectArticle = "SELECT id, topicId, projectId, writer, publisher, contentLink, publishLink, status, writerSubmittedAt, publishedAt FROM article"

	var articleDB = &ArticleDB{}
	articleDB.DB = db
	articleDB.delete = mustPrepare(db, "DELETE FROM article WHERE id = ?")
	articleDB.get = mustPrepare(db, selectArticle+" WHERE id = ? LIMIT 1")
	articleDB.getByTopic = mustPrepare(db, selectArticle+" WHERE topicId = ? LIMIT 1")
	articleDB.getAll = mustPrepare(db, selectArticle+" ORDER BY id LIMIT ? OFFSET ?")
	return articleDB
}

func (db *ArticleDB) Writeable() bool {
	return true
}

func (db *ArticleDB) DeleteArticle(a core.DBArticle) error {
	_, err := db.delete.Exec(a.ID())
	return err
}

func (db *ArticleDB) GetArticle(id int) (core.DBArticle, error) {
	var a = &article{}
	err := db.get.QueryRow(id).Scan(&a.id, &a.topicID, &a.projectID, &a.writerID, &a.publisher, &a.contentLink, &a.publishLink, &a.status, &a.writerSubmittedAt, &a.publishedAt)
	return a, err
}

func (db *ArticleDB) GetArticleByTopic(topicID int) (core.DBArticle, error) {
	var a = &article{}
	err := db.getByTopic.QueryRow(topicID).Scan(&a.id, &a.topicID, &a.projectID, &a.writerID, &a.publisher, &a.contentLink, &a.publishLink, &a.status, &a.writerSubmittedAt, &a.publishedAt)
	return a, err
}

func (db *ArticleDB) GetAllArticles(limit, offset int) ([]core.DBArticle, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBArticle{}

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, a)
	}

	return all, nil
}

// GetArticlesByTopics fetches the articles of the given topics in one
// query. The IN clause is built at call time, prepared statements can't
// take a variable number of arguments.
func (db *ArticleDB) GetArticlesByTopics(topicIDs []int) ([]core.DBArticle, error) {

	if len(topicIDs) == 0 {
		return []core.DBArticle{}, nil
	}

	query, args, err := sq.Select(articleCols...).From("article").Where(sq.Eq{"topicId": topicIDs}).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBArticle{}

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, a)
	}

	return all, nil
}

// UpdateArticle writes the non-nil patch fields. The UPDATE statement is
// built at call time because its column set varies.
func (db *ArticleDB) UpdateArticle(a core.DBArticle, patch core.ArticlePatch) error {

	var builder = sq.Update("article").Where(sq.Eq{"id": a.ID()})
	var dirty bool

	if patch.ContentLink != nil {
		builder = builder.Set("contentLink", *patch.ContentLink)
		dirty = true
	}
	if patch.PublishLink != nil {
		builder = builder.Set("publishLink", *patch.PublishLink)
		dirty = true
	}
	if patch.Status != nil {
		builder = builder.Set("status", string(*patch.Status))
		dirty = true
	}
	if patch.Publisher != nil {
		builder = builder.Set("publisher", *patch.Publisher)
		dirty = true
	}

	if !dirty {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = db.Exec(query, args...)
	return err
}

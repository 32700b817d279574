package sqldb

import (
	"database/sql"

	"github.com/wansing/copydesk/core"
)

type topic struct {
	db                  *TopicDB // required for lazy loading
	id                  int
	title               string
	keywords            []string
	keywordsLoaded      bool // lazy loading
	month               string
	wordCount           int
	typ                 string
	projectID           int
	status              string
	researchSubmittedAt int64
	assignedTo          int
	adminAssignedAt     int64
	createdBy           string
}

func (t *topic) ID() int {
	return t.id
}

func (t *topic) Title() string {
	return t.title
}

func (t *topic) Keywords() ([]string, error) {

	if !t.keywordsLoaded {

		t.keywords = []string{}

		rows, err := t.db.keywords.Query(t.id)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var keyword string
			if err = rows.Scan(&keyword); err != nil {
				return nil, err
			}
			t.keywords = append(t.keywords, keyword)
		}

		t.keywordsLoaded = true
	}

	return t.keywords, nil
}

func (t *topic) Month() string {
	return t.month
}

func (t *topic) WordCount() int {
	return t.wordCount
}

func (t *topic) Type() core.TopicType {
	return core.TopicType(t.typ)
}

func (t *topic) ProjectID() int {
	return t.projectID
}

func (t *topic) Status() core.TopicStatus {
	return core.TopicStatus(t.status)
}

func (t *topic) ResearchSubmittedAt() int64 {
	return t.researchSubmittedAt
}

func (t *topic) AssignedTo() int {
	return t.assignedTo
}

func (t *topic) AdminAssignedAt() int64 {
	return t.adminAssignedAt
}

func (t *topic) CreatedBy() string {
	return t.createdBy
}

const topicCols = "id, title, month, wordCount, type, projectId, status, researchSubmittedAt, assignedTo, adminAssignedAt, createdBy"

type TopicDB struct {
	*sql.DB
	clearKeywords *sql.Stmt
	delete        *sql.Stmt
	get           *sql.Stmt
	getAll        *sql.Stmt
	insert        *sql.Stmt
	keywords      *sql.Stmt
	pushKeyword   *sql.Stmt
}

func NewTopicDB(db *sql.DB) *TopicDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS topic (
			id INTEGER PRIMARY KEY,
			title varchar(256) NOT NULL,
			month varchar(16) NOT NULL,
			wordCount int(11) NOT NULL,
			type varchar(32) NOT NULL,
			projectId int(11) NOT NULL,
			status varchar(16) NOT NULL DEFAULT 'pending',
			researchSubmittedAt bigint NOT NULL DEFAULT 0,
			assignedTo int(11) NOT NULL DEFAULT 0,
			adminAssignedAt bigint NOT NULL DEFAULT 0,
			createdBy varchar(128) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS topic_keyword (
			topicId int(11) NOT NULL,
			position int(11) NOT NULL,
			keyword varchar(128) NOT NULL,
			PRIMARY KEY (topicId, position)
		);`)

	var topicDB = &TopicDB{}
	topicDB.DB = db
	topicDB.clearKeywords = mustPrepare(db, "DELETE FROM topic_keyword WHERE topicId = ?")
	topicDB.delete = mustPrepare(db, "DELETE FROM topic WHERE id = ?")
	topicDB.get = mustPrepare(db, "SELECT "+topicCols+" FROM topic WHERE id = ? LIMIT 1")
	topicDB.getAll = mustPrepare(db, "SELECT "+topicCols+" FROM topic ORDER BY id LIMIT ? OFFSET ?")
	topicDB.insert = mustPrepare(db, "INSERT INTO topic (title, month, wordCount, type, projectId, status, researchSubmittedAt, createdBy) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	topicDB.keywords = mustPrepare(db, "SELECT keyword FROM topic_keyword WHERE topicId = ? ORDER BY position")
	topicDB.pushKeyword = mustPrepare(db, "INSERT INTO topic_keyword (topicId, position, keyword) VALUES (?, ?, ?)")
	return topicDB
}

func (db *TopicDB) Writeable() bool {
	return true
}

// DeleteTopic removes the topic and its keywords. It deliberately leaves
// the topic's article alone.
func (db *TopicDB) DeleteTopic(t core.DBTopic) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Stmt(db.clearKeywords).Exec(t.ID())
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Stmt(db.delete).Exec(t.ID())
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *TopicDB) GetTopic(id int) (core.DBTopic, error) {
	var t = &topic{
		db: db,
	}
	err := db.get.QueryRow(id).Scan(&t.id, &t.title, &t.month, &t.wordCount, &t.typ, &t.projectID, &t.status, &t.researchSubmittedAt, &t.assignedTo, &t.adminAssignedAt, &t.createdBy)
	return t, err
}

func (db *TopicDB) GetAllTopics(limit, offset int) ([]core.DBTopic, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBTopic{}

	for rows.Next() {
		var t = &topic{
			db: db,
		}
		err = rows.Scan(&t.id, &t.title, &t.month, &t.wordCount, &t.typ, &t.projectID, &t.status, &t.researchSubmittedAt, &t.assignedTo, &t.adminAssignedAt, &t.createdBy)
		if err != nil {
			return nil, err
		}
		all = append(all, t)
	}

	return all, nil
}

func (db *TopicDB) InsertTopic(draft core.TopicDraft, createdBy string, researchSubmittedAt int64) (core.DBTopic, error) {

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	result, err := tx.Stmt(db.insert).Exec(draft.Title, draft.Month, draft.WordCount, string(draft.Type), draft.ProjectID, string(core.TopicPending), researchSubmittedAt, createdBy)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for position, keyword := range draft.Keywords {
		if _, err = tx.Stmt(db.pushKeyword).Exec(id, position, keyword); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &topic{
		db:                  db,
		id:                  int(id),
		title:               draft.Title,
		keywords:            draft.Keywords,
		keywordsLoaded:      true,
		month:               draft.Month,
		wordCount:           draft.WordCount,
		typ:                 string(draft.Type),
		projectID:           draft.ProjectID,
		status:              string(core.TopicPending),
		researchSubmittedAt: researchSubmittedAt,
		createdBy:           createdBy,
	}, nil
}

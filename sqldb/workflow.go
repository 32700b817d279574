package sqldb

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/copydesk/core"
)

// WorkflowDB commits topic transitions together with their side effects.
// It expects the topic and article tables to exist, so create it after
// NewTopicDB and NewArticleDB.
type WorkflowDB struct {
	*sql.DB
	assign        *sql.Stmt
	state         *sql.Stmt
	clearKeywords *sql.Stmt
	pushKeyword   *sql.Stmt
	articleExists *sql.Stmt
	insertArticle *sql.Stmt
}

func NewWorkflowDB(db *sql.DB) *WorkflowDB {

	var workflowDB = &WorkflowDB{}
	workflowDB.DB = db
	// the guard keeps a concurrent assignment from stamping twice
	workflowDB.assign = mustPrepare(db, "UPDATE topic SET adminAssignedAt = ? WHERE id = ? AND (status <> 'assigned' OR assignedTo = 0)")
	workflowDB.state = mustPrepare(db, "SELECT status, assignedTo, projectId FROM topic WHERE id = ? LIMIT 1")
	workflowDB.clearKeywords = mustPrepare(db, "DELETE FROM topic_keyword WHERE topicId = ?")
	workflowDB.pushKeyword = mustPrepare(db, "INSERT INTO topic_keyword (topicId, position, keyword) VALUES (?, ?, ?)")
	workflowDB.articleExists = mustPrepare(db, "SELECT id FROM article WHERE topicId = ? LIMIT 1")
	workflowDB.insertArticle = mustPrepare(db, "INSERT INTO article (topicId, projectId, writer, status) VALUES (?, ?, ?, ?)")
	return workflowDB
}

func (db *WorkflowDB) Writeable() bool {
	return true
}

// UpdateTopic applies the patch in one transaction: the conditional
// adminAssignedAt stamp, the column changes, the keyword list, and the
// article handoff if the resulting topic is assigned to a writer. A
// failed commit leaves nothing behind.
func (db *WorkflowDB) UpdateTopic(topicID int, patch core.TopicPatch, assignedAt int64) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if assignedAt > 0 {
		if _, err = tx.Stmt(db.assign).Exec(assignedAt, topicID); err != nil {
			tx.Rollback()
			return err
		}
	}

	// the UPDATE statement is built at call time because its column set varies
	var builder = sq.Update("topic").Where(sq.Eq{"id": topicID})
	var dirty bool

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
		dirty = true
	}
	if patch.Month != nil {
		builder = builder.Set("month", *patch.Month)
		dirty = true
	}
	if patch.WordCount != nil {
		builder = builder.Set("wordCount", *patch.WordCount)
		dirty = true
	}
	if patch.Type != nil {
		builder = builder.Set("type", string(*patch.Type))
		dirty = true
	}
	if patch.ProjectID != nil {
		builder = builder.Set("projectId", *patch.ProjectID)
		dirty = true
	}
	if patch.Status != nil {
		builder = builder.Set("status", string(*patch.Status))
		dirty = true
	}
	if patch.AssignedTo != nil {
		builder = builder.Set("assignedTo", *patch.AssignedTo)
		dirty = true
	}

	if dirty {
		query, args, err := builder.ToSql()
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err = tx.Exec(query, args...); err != nil {
			tx.Rollback()
			return err
		}
	}

	if patch.Keywords != nil {
		if _, err = tx.Stmt(db.clearKeywords).Exec(topicID); err != nil {
			tx.Rollback()
			return err
		}
		for position, keyword := range patch.Keywords {
			if _, err = tx.Stmt(db.pushKeyword).Exec(topicID, position, keyword); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	// handoff on the resulting state, not on the patch
	var status string
	var assignedTo, projectID int
	if err = tx.Stmt(db.state).QueryRow(topicID).Scan(&status, &assignedTo, &projectID); err != nil {
		tx.Rollback()
		return err
	}

	if core.TopicStatus(status) == core.TopicAssigned && assignedTo != 0 {
		if err = db.ensureArticle(tx, topicID, projectID, assignedTo); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (db *WorkflowDB) EnsureArticle(topicID, projectID, writerID int) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err = db.ensureArticle(tx, topicID, projectID, writerID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ensureArticle creates the article for the topic unless one exists. The
// UNIQUE(topicId) constraint backs the check up: if the insert loses a
// race, the error is swallowed as long as an article exists afterwards.
func (db *WorkflowDB) ensureArticle(tx *sql.Tx, topicID, projectID, writerID int) error {

	var id int
	err := tx.Stmt(db.articleExists).QueryRow(topicID).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.Stmt(db.insertArticle).Exec(topicID, projectID, writerID, string(core.ArticleAssigned))
	if err != nil {
		// re-check within the transaction: a concurrent insert may have won
		if existsErr := tx.QueryRow("SELECT id FROM article WHERE topicId = ? LIMIT 1", topicID).Scan(&id); existsErr == nil {
			return nil
		}
		return err
	}

	return nil
}

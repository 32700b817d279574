package sqldb

import (
	"database/sql"

	"github.com/wansing/copydesk/core"
)

type project struct {
	id        int
	name      string
	word      int
	private   bool
	createdBy string
}

func (p *project) ID() int {
	return p.id
}

func (p *project) Name() string {
	return p.name
}

func (p *project) Word() int {
	return p.word
}

func (p *project) Private() bool {
	return p.private
}

func (p *project) CreatedBy() string {
	return p.createdBy
}

type ProjectDB struct {
	*sql.DB
	delete *sql.Stmt
	get    *sql.Stmt
	getAll *sql.Stmt
	insert *sql.Stmt
	update *sql.Stmt
}

func NewProjectDB(db *sql.DB) *ProjectDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS project (
			id INTEGER PRIMARY KEY,
			name varchar(128) NOT NULL,
			word int(11) NOT NULL DEFAULT 0,
			private boolean NOT NULL DEFAULT false,
			createdBy varchar(128) NOT NULL,
			UNIQUE(name)
		);`)

	var projectDB = &ProjectDB{}
	projectDB.DB = db
	projectDB.delete = mustPrepare(db, "DELETE FROM project WHERE id = ?")
	projectDB.get = mustPrepare(db, "SELECT name, word, private, createdBy FROM project WHERE id = ? LIMIT 1")
	projectDB.getAll = mustPrepare(db, "SELECT id, name, word, private, createdBy FROM project ORDER BY name LIMIT ? OFFSET ?")
	projectDB.insert = mustPrepare(db, "INSERT INTO project (name, word, private, createdBy) VALUES (?, ?, ?, ?)")
	projectDB.update = mustPrepare(db, "UPDATE project SET name = ?, word = ?, private = ? WHERE id = ?")
	return projectDB
}

func (db *ProjectDB) Writeable() bool {
	return true
}

func (db *ProjectDB) DeleteProject(p core.DBProject) error {
	_, err := db.delete.Exec(p.ID())
	return err
}

func (db *ProjectDB) GetProject(id int) (core.DBProject, error) {
	var p = &project{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&p.name, &p.word, &p.private, &p.createdBy)
	return p, err
}

func (db *ProjectDB) GetAllProjects(limit, offset int) ([]core.DBProject, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBProject{}

	for rows.Next() {
		var p = &project{}
		err = rows.Scan(&p.id, &p.name, &p.word, &p.private, &p.createdBy)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}

	return all, nil
}

func (db *ProjectDB) InsertProject(name string, word int, private bool, createdBy string) (core.DBProject, error) {

	result, err := db.insert.Exec(name, word, private, createdBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &project{
		id:        int(id),
		name:      name,
		word:      word,
		private:   private,
		createdBy: createdBy,
	}, nil
}

func (db *ProjectDB) UpdateProject(p core.DBProject, name string, word int, private bool) error {
	_, err := db.update.Exec(name, word, private, p.ID())
	return err
}

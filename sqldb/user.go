package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/wansing/copydesk/auth"
	"github.com/wansing/copydesk/util"
)

var ErrAuth = errors.New("authentication failed")

func clean(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)
	return email
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

type user struct {
	id    int
	email string
	name  string
	roles auth.RoleSet
	salt  string
	pass  string // hash
}

func (u *user) hash(password string) string {
	return hash(u.salt, password)
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Email() string {
	return u.email
}

func (u *user) Name() string {
	return u.name
}

func (u *user) Roles() auth.RoleSet {
	return u.roles
}

type UserDB struct {
	*sql.DB
	delete      *sql.Stmt
	get         *sql.Stmt
	getByMail   *sql.Stmt
	getAll      *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
	setRoles    *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			mail varchar(128) NOT NULL,
			name varchar(128) NOT NULL,
			roles varchar(128) NOT NULL DEFAULT '',
			salt varchar(64) NOT NULL DEFAULT '',
			password varchar(64) NOT NULL DEFAULT '',
			UNIQUE(mail)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.delete = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.get = mustPrepare(db, "SELECT mail, name, roles FROM usr WHERE id = ? LIMIT 1")
	userDB.getByMail = mustPrepare(db, "SELECT id, name, roles FROM usr WHERE mail = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, mail, name, roles FROM usr ORDER BY mail LIMIT ? OFFSET ?")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (mail, name, roles) VALUES (?, ?, ?)") // empty password field should be safe because no hash value equals it
	userDB.login = mustPrepare(db, "SELECT id, name, roles, salt, password FROM usr WHERE mail = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET salt = ?, password = ? WHERE id = ?")
	userDB.setRoles = mustPrepare(db, "UPDATE usr SET roles = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) Writeable() bool {
	return true
}

func (db *UserDB) ChangePassword(u auth.DBUser, old, new string) error {
	if u.(*user).hash(old) != u.(*user).pass {
		return ErrAuth
	}
	return db.SetPassword(u, new)
}

func (db *UserDB) Delete(u auth.DBUser) error {
	_, err := db.delete.Exec(u.ID())
	return err
}

// GetUser may return sql.ErrNoRows, because we can not compare the returned auth.DBUser to nil.
func (db *UserDB) GetUser(id int) (auth.DBUser, error) {
	var u = &user{
		id: id,
	}
	var roles string
	if err := db.get.QueryRow(id).Scan(&u.email, &u.name, &roles); err != nil {
		return u, err
	}
	var err error
	u.roles, err = auth.ParseRoles(roles)
	return u, err
}

func (db *UserDB) GetUserByEmail(email string) (auth.DBUser, error) {
	var u = &user{
		email: clean(email),
	}
	var roles string
	if err := db.getByMail.QueryRow(u.email).Scan(&u.id, &u.name, &roles); err != nil {
		return u, err
	}
	var err error
	u.roles, err = auth.ParseRoles(roles)
	return u, err
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]auth.DBUser, error) {

	var all = []auth.DBUser{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = &user{}
		var roles string
		if err = rows.Scan(&u.id, &u.email, &u.name, &roles); err != nil {
			return nil, err
		}
		if u.roles, err = auth.ParseRoles(roles); err != nil {
			return nil, err
		}
		all = append(all, u)
	}

	return all, nil
}

func (db *UserDB) InsertUser(email, name string, roles auth.RoleSet) (auth.DBUser, error) {

	email = clean(email)
	if email == "" {
		return nil, errors.New("no email given")
	}

	result, err := db.insert.Exec(email, name, roles.String())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &user{
		id:    int(id),
		email: email,
		name:  name,
		roles: roles,
	}, nil
}

func (db *UserDB) LoginUser(email, password string) (auth.DBUser, error) {

	var u = &user{
		email: clean(email),
	}

	var roles string
	err := db.login.QueryRow(u.email).Scan(&u.id, &u.name, &roles, &u.salt, &u.pass)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if u.hash(password) != u.pass {
		return nil, ErrAuth // wrong password
	}

	if u.roles, err = auth.ParseRoles(roles); err != nil {
		return nil, err
	}

	return u, nil
}

func (db *UserDB) SetPassword(u auth.DBUser, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if u.ID() == 0 {
		return errors.New("can't set password of user 0")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), u.ID())
	if err != nil {
		return err
	}

	u.(*user).salt = salt
	return nil
}

func (db *UserDB) SetRoles(u auth.DBUser, roles auth.RoleSet) error {

	_, err := db.setRoles.Exec(roles.String(), u.ID())
	if err != nil {
		return err
	}

	u.(*user).roles = roles
	return nil
}

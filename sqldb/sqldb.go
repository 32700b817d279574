// Package sqldb implements the copydesk storage interfaces on an SQL
// database. Statements are prepared once at startup, multi-statement
// writes run in transactions.
package sqldb

import "database/sql"

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

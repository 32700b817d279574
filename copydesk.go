package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/copydesk/auth"
	"github.com/wansing/copydesk/backend"
	"github.com/wansing/copydesk/core"
	"github.com/wansing/copydesk/sqldb"
	"github.com/wansing/copydesk/sqldb/mysql"
	"github.com/wansing/copydesk/sqldb/sqlite3"
	"github.com/wansing/copydesk/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

// config/copydesk.ini provides defaults, command line flags override them
func cfgDefault(cfg map[string]string, key, fallback string) string {
	if value, ok := cfg[key]; ok && value != "" {
		return value
	}
	return fallback
}

func main() {

	cfg, _ := util.Ini("copydesk.ini") // a missing config file is fine

	var defaultDB = cfgDefault(cfg, "db", "sqlite3:copydesk.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared")

	var dbArg string // is in both FlagSets

	// default FlagSet

	var base = flag.String("base", cfgDefault(cfg, "base", ""), "strip off this `prefix` from every HTTP request")
	// MySQL: collation should be utf8mb4_unicode_ci
	flag.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", cfgDefault(cfg, "listen", "127.0.0.1:8080"), "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl") // copied from above
	var initEmail = initFlags.String("user", "", "creates a user with this `email` address")
	var initName = initFlags.String("name", "", "specifies the new user's `name`")
	var initRoles = initFlags.String("roles", "", "comma-separated `roles` of the new user (admin, researcher, writer, publisher)")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	if err = db.Init(sessionStore, *base); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.ProjectDB = sqldb.NewProjectDB(sqlDB)
	db.TopicDB = sqldb.NewTopicDB(sqlDB)
	db.ArticleDB = sqldb.NewArticleDB(sqlDB)
	db.WorkflowDB = sqldb.NewWorkflowDB(sqlDB) // after topic and article, it prepares statements on their tables

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		if *initEmail != "" {
			insertUser(db, *initEmail, *initName, *initRoles)
		}
		return
	}

	listen(db, *listenAddr, *base)
}

func insertUser(db *core.CoreDB, email, name, rolesArg string) {

	roles, err := auth.ParseRoles(rolesArg)
	if err != nil {
		log.Printf("error parsing roles: %v", err)
		return
	}

	fmt.Printf("password for user %s: ", email)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	user, err := db.InsertUser(email, name, roles)
	if err != nil {
		log.Printf("error creating user %s: %v", email, err)
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func listen(db *core.CoreDB, addr string, base string) {

	var handler http.Handler = backend.NewRouter(db)
	if base != "" {
		handler = http.StripPrefix(base, handler)
	}

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()
}

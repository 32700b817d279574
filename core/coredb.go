package core

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/copydesk/auth"
)

type CoreDB struct {
	auth.AuthDB
	ArticleDB
	ProjectDB
	TopicDB
	WorkflowDB
	SessionManager *scs.SessionManager
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't store the cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}

// now is replaced in tests.
var now = func() int64 {
	return time.Now().Unix()
}

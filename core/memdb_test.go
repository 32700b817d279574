package core

import (
	"database/sql"
	"sort"

	"github.com/wansing/copydesk/auth"
)

// in-memory stores for engine tests

// misses return sql.ErrNoRows like the real store
var errNotFound = sql.ErrNoRows

type memUser struct {
	id    int
	email string
	name  string
	roles auth.RoleSet
}

func (u *memUser) ID() int             { return u.id }
func (u *memUser) Email() string       { return u.email }
func (u *memUser) Name() string        { return u.name }
func (u *memUser) Roles() auth.RoleSet { return u.roles }

type memUserDB struct {
	users  map[int]*memUser
	nextID int
}

func newMemUserDB() *memUserDB {
	return &memUserDB{users: make(map[int]*memUser)}
}

func (db *memUserDB) Writeable() bool { return true }

func (db *memUserDB) ChangePassword(u auth.DBUser, old, new string) error { return nil }
func (db *memUserDB) SetPassword(u auth.DBUser, password string) error    { return nil }

func (db *memUserDB) Delete(u auth.DBUser) error {
	delete(db.users, u.ID())
	return nil
}

func (db *memUserDB) GetUser(id int) (auth.DBUser, error) {
	if u, ok := db.users[id]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (db *memUserDB) GetUserByEmail(email string) (auth.DBUser, error) {
	for _, u := range db.users {
		if u.email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (db *memUserDB) GetAllUsers(limit, offset int) ([]auth.DBUser, error) {
	var all = []auth.DBUser{}
	for _, u := range db.users {
		all = append(all, u)
	}
	return all, nil
}

func (db *memUserDB) InsertUser(email, name string, roles auth.RoleSet) (auth.DBUser, error) {
	db.nextID++
	var u = &memUser{id: db.nextID, email: email, name: name, roles: roles}
	db.users[u.id] = u
	return u, nil
}

func (db *memUserDB) LoginUser(email, password string) (auth.DBUser, error) {
	return db.GetUserByEmail(email)
}

func (db *memUserDB) SetRoles(u auth.DBUser, roles auth.RoleSet) error {
	db.users[u.ID()].roles = roles
	return nil
}

type memTopic struct {
	id                  int
	title               string
	keywords            []string
	month               string
	wordCount           int
	typ                 TopicType
	projectID           int
	status              TopicStatus
	researchSubmittedAt int64
	assignedTo          int
	adminAssignedAt     int64
	createdBy           string
}

func (t *memTopic) ID() int                     { return t.id }
func (t *memTopic) Title() string               { return t.title }
func (t *memTopic) Keywords() ([]string, error) { return t.keywords, nil }
func (t *memTopic) Month() string               { return t.month }
func (t *memTopic) WordCount() int              { return t.wordCount }
func (t *memTopic) Type() TopicType             { return t.typ }
func (t *memTopic) ProjectID() int              { return t.projectID }
func (t *memTopic) Status() TopicStatus         { return t.status }
func (t *memTopic) ResearchSubmittedAt() int64  { return t.researchSubmittedAt }
func (t *memTopic) AssignedTo() int             { return t.assignedTo }
func (t *memTopic) AdminAssignedAt() int64      { return t.adminAssignedAt }
func (t *memTopic) CreatedBy() string           { return t.createdBy }

type memArticle struct {
	id                int
	topicID           int
	projectID         int
	writerID          int
	publisher         string
	contentLink       string
	publishLink       string
	status            ArticleStatus
	writerSubmittedAt int64
	publishedAt       int64
}

func (a *memArticle) ID() int                  { return a.id }
func (a *memArticle) TopicID() int             { return a.topicID }
func (a *memArticle) ProjectID() int           { return a.projectID }
func (a *memArticle) WriterID() int            { return a.writerID }
func (a *memArticle) Publisher() string        { return a.publisher }
func (a *memArticle) ContentLink() string      { return a.contentLink }
func (a *memArticle) PublishLink() string      { return a.publishLink }
func (a *memArticle) Status() ArticleStatus    { return a.status }
func (a *memArticle) WriterSubmittedAt() int64 { return a.writerSubmittedAt }
func (a *memArticle) PublishedAt() int64       { return a.publishedAt }

type memProject struct {
	id        int
	name      string
	word      int
	private   bool
	createdBy string
}

func (p *memProject) ID() int           { return p.id }
func (p *memProject) Name() string      { return p.name }
func (p *memProject) Word() int         { return p.word }
func (p *memProject) Private() bool     { return p.private }
func (p *memProject) CreatedBy() string { return p.createdBy }

// memStore implements TopicDB, ArticleDB, ProjectDB and WorkflowDB over maps.
type memStore struct {
	topics   map[int]*memTopic
	articles map[int]*memArticle
	projects map[int]*memProject
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		topics:   make(map[int]*memTopic),
		articles: make(map[int]*memArticle),
		projects: make(map[int]*memProject),
	}
}

func (db *memStore) Writeable() bool { return true }

func (db *memStore) DeleteTopic(t DBTopic) error {
	delete(db.topics, t.ID())
	return nil
}

func (db *memStore) GetTopic(id int) (DBTopic, error) {
	if t, ok := db.topics[id]; ok {
		return t, nil
	}
	return nil, errNotFound
}

func (db *memStore) GetAllTopics(limit, offset int) ([]DBTopic, error) {
	var ids []int
	for id := range db.topics {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var all = []DBTopic{}
	for _, id := range ids {
		all = append(all, db.topics[id])
	}
	return all, nil
}

func (db *memStore) InsertTopic(draft TopicDraft, createdBy string, researchSubmittedAt int64) (DBTopic, error) {
	db.nextID++
	var t = &memTopic{
		id:                  db.nextID,
		title:               draft.Title,
		keywords:            draft.Keywords,
		month:               draft.Month,
		wordCount:           draft.WordCount,
		typ:                 draft.Type,
		projectID:           draft.ProjectID,
		status:              TopicPending,
		researchSubmittedAt: researchSubmittedAt,
		createdBy:           createdBy,
	}
	db.topics[t.id] = t
	return t, nil
}

// UpdateTopic mimics the transactional store: conditional adminAssignedAt,
// then the patch, then the article handoff.
func (db *memStore) UpdateTopic(topicID int, patch TopicPatch, assignedAt int64) error {

	t, ok := db.topics[topicID]
	if !ok {
		return errNotFound
	}

	if assignedAt > 0 && (t.status != TopicAssigned || t.assignedTo == 0) {
		t.adminAssignedAt = assignedAt
	}

	if patch.Title != nil {
		t.title = *patch.Title
	}
	if patch.Keywords != nil {
		t.keywords = patch.Keywords
	}
	if patch.Month != nil {
		t.month = *patch.Month
	}
	if patch.WordCount != nil {
		t.wordCount = *patch.WordCount
	}
	if patch.Type != nil {
		t.typ = *patch.Type
	}
	if patch.ProjectID != nil {
		t.projectID = *patch.ProjectID
	}
	if patch.Status != nil {
		t.status = *patch.Status
	}
	if patch.AssignedTo != nil {
		t.assignedTo = *patch.AssignedTo
	}

	if t.status == TopicAssigned && t.assignedTo != 0 {
		return db.EnsureArticle(t.id, t.projectID, t.assignedTo)
	}
	return nil
}

func (db *memStore) EnsureArticle(topicID, projectID, writerID int) error {
	for _, a := range db.articles {
		if a.topicID == topicID {
			return nil
		}
	}
	db.nextID++
	db.articles[db.nextID] = &memArticle{
		id:        db.nextID,
		topicID:   topicID,
		projectID: projectID,
		writerID:  writerID,
		status:    ArticleAssigned,
	}
	return nil
}

func (db *memStore) DeleteArticle(a DBArticle) error {
	delete(db.articles, a.ID())
	return nil
}

func (db *memStore) GetArticle(id int) (DBArticle, error) {
	if a, ok := db.articles[id]; ok {
		return a, nil
	}
	return nil, errNotFound
}

func (db *memStore) GetArticleByTopic(topicID int) (DBArticle, error) {
	for _, a := range db.articles {
		if a.topicID == topicID {
			return a, nil
		}
	}
	return nil, errNotFound
}

func (db *memStore) GetAllArticles(limit, offset int) ([]DBArticle, error) {
	var ids []int
	for id := range db.articles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var all = []DBArticle{}
	for _, id := range ids {
		all = append(all, db.articles[id])
	}
	return all, nil
}

func (db *memStore) GetArticlesByTopics(topicIDs []int) ([]DBArticle, error) {
	var want = make(map[int]bool)
	for _, id := range topicIDs {
		want[id] = true
	}
	var all = []DBArticle{}
	for _, a := range db.articles {
		if want[a.topicID] {
			all = append(all, a)
		}
	}
	return all, nil
}

func (db *memStore) UpdateArticle(a DBArticle, patch ArticlePatch) error {

	stored, ok := db.articles[a.ID()]
	if !ok {
		return errNotFound
	}

	if patch.ContentLink != nil {
		stored.contentLink = *patch.ContentLink
		if patch.Status != nil && *patch.Status == ArticleSubmitted {
			stored.status = ArticleSubmitted
		}
	}
	if patch.PublishLink != nil {
		stored.publishLink = *patch.PublishLink
	}
	if patch.Publisher != nil {
		stored.publisher = *patch.Publisher
	}
	if patch.Status != nil {
		stored.status = *patch.Status
	}
	return nil
}

func (db *memStore) DeleteProject(p DBProject) error {
	delete(db.projects, p.ID())
	return nil
}

func (db *memStore) GetProject(id int) (DBProject, error) {
	if p, ok := db.projects[id]; ok {
		return p, nil
	}
	return nil, errNotFound
}

func (db *memStore) GetAllProjects(limit, offset int) ([]DBProject, error) {
	var all = []DBProject{}
	for _, p := range db.projects {
		all = append(all, p)
	}
	return all, nil
}

func (db *memStore) InsertProject(name string, word int, private bool, createdBy string) (DBProject, error) {
	db.nextID++
	var p = &memProject{id: db.nextID, name: name, word: word, private: private, createdBy: createdBy}
	db.projects[p.id] = p
	return p, nil
}

func (db *memStore) UpdateProject(p DBProject, name string, word int, private bool) error {
	stored, ok := db.projects[p.ID()]
	if !ok {
		return errNotFound
	}
	stored.name = name
	stored.word = word
	stored.private = private
	return nil
}

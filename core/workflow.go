package core

import (
	"strings"

	"github.com/wansing/copydesk/auth"
)

// A WorkflowDB commits topic transitions together with their side effects.
//
// The topic→article handoff ("a topic became assigned, so an article must
// exist") is the only place an article ever comes into existence. It is
// driven by exactly one consumer, UpdateTopic's transaction, so the causal
// link stays auditable and a failed commit leaves neither half behind.
type WorkflowDB interface {
	// UpdateTopic applies the patch to the topic. If assignedAt > 0, it also
	// sets adminAssignedAt, guarded by "not yet assigned" within the same
	// statement so a concurrent assignment can't set it twice. If the
	// resulting topic is assigned to a writer, it creates the article unless
	// one exists. All of it commits in one transaction or not at all.
	UpdateTopic(topicID int, patch TopicPatch, assignedAt int64) error

	// EnsureArticle creates the article for the topic unless one exists.
	// Idempotent, the store enforces one article per topic.
	EnsureArticle(topicID, projectID, writerID int) error

	Writeable() bool
}

// ProposeTopic creates a topic in state pending with researchSubmittedAt
// set to now. Callers need the researcher or admin role.
func (c *CoreDB) ProposeTopic(caller auth.User, draft TopicDraft) (DBTopic, error) {

	if err := require(OpProposeTopic, caller); err != nil {
		return nil, err
	}

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, validationErr("title is required")
	}
	if draft.Month == "" {
		return nil, validationErr("month is required")
	}
	if !ValidMonth(draft.Month) {
		return nil, validationErr("unknown month %s", draft.Month)
	}
	if draft.WordCount == 0 {
		draft.WordCount = DefaultWordCount
	}
	if draft.WordCount < 0 {
		return nil, validationErr("word count must be positive")
	}
	if draft.Type == "" {
		draft.Type = BlogPost
	}
	if !draft.Type.Valid() {
		return nil, validationErr("unknown topic type %s", draft.Type)
	}
	if draft.ProjectID == 0 {
		return nil, validationErr("project is required")
	}
	if _, err := c.GetProject(draft.ProjectID); err != nil {
		if notFound(err) {
			return nil, validationErr("unknown project %d", draft.ProjectID)
		}
		return nil, err
	}

	return c.InsertTopic(draft, caller.Email(), now())
}

// UpdateTopic applies a partial update to a topic. Callers need the admin
// role.
//
// If the patch moves the topic into the assigned state, or supplies a
// writer where none was set, adminAssignedAt is set as a side effect. If
// the resulting topic is assigned to a writer, the article is created on
// first assignment (and only then, repeated updates are no-ops there).
func (c *CoreDB) UpdateTopic(caller auth.User, topicID int, patch TopicPatch) (DBTopic, error) {

	if err := require(OpUpdateTopic, caller); err != nil {
		return nil, err
	}

	t, err := c.GetTopic(topicID)
	if err != nil {
		if notFound(err) {
			return nil, NotFoundError{"topic", topicID}
		}
		return nil, err
	}

	if patch.Month != nil && !ValidMonth(*patch.Month) {
		return nil, validationErr("unknown month %s", *patch.Month)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, validationErr("unknown topic type %s", *patch.Type)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, validationErr("unknown status %s", *patch.Status)
	}
	if patch.WordCount != nil && *patch.WordCount <= 0 {
		return nil, validationErr("word count must be positive")
	}
	if patch.ProjectID != nil {
		if _, err := c.GetProject(*patch.ProjectID); err != nil {
			if notFound(err) {
				return nil, validationErr("unknown project %d", *patch.ProjectID)
			}
			return nil, err
		}
	}

	// assignedTo must reference a user holding the writer role
	if patch.AssignedTo != nil && *patch.AssignedTo != 0 {
		writer, err := c.GetUser(*patch.AssignedTo)
		if err != nil {
			if notFound(err) {
				return nil, validationErr("unknown user %d", *patch.AssignedTo)
			}
			return nil, err
		}
		if !writer.Roles().Contains(auth.Writer) {
			return nil, RoleMismatchError{writer.Email()}
		}
	}

	var assignedAt int64
	if (patch.Status != nil && *patch.Status == TopicAssigned && t.Status() != TopicAssigned) ||
		(patch.AssignedTo != nil && *patch.AssignedTo != 0 && t.AssignedTo() == 0) {
		assignedAt = now()
	}

	if err := c.WorkflowDB.UpdateTopic(topicID, patch, assignedAt); err != nil {
		return nil, err
	}

	return c.GetTopic(topicID)
}

// AssignTopicByEmail resolves the email address to a user and assigns the
// topic to them. The target must hold the writer role, otherwise nothing
// is mutated.
func (c *CoreDB) AssignTopicByEmail(caller auth.User, topicID int, email string) (DBTopic, error) {

	if err := require(OpUpdateTopic, caller); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, validationErr("email is required")
	}

	writer, err := c.GetUserByEmail(email)
	if err != nil {
		if notFound(err) {
			return nil, validationErr("unknown user %s", email)
		}
		return nil, err
	}
	if !writer.Roles().Contains(auth.Writer) {
		return nil, RoleMismatchError{writer.Email()}
	}

	var status = TopicAssigned
	var writerID = writer.ID()
	return c.UpdateTopic(caller, topicID, TopicPatch{
		Status:     &status,
		AssignedTo: &writerID,
	})
}

// DeleteTopic deletes the topic. It deliberately does not cascade to the
// topic's article.
func (c *CoreDB) DeleteTopic(caller auth.User, topicID int) error {

	if err := require(OpDeleteTopic, caller); err != nil {
		return err
	}

	t, err := c.GetTopic(topicID)
	if err != nil {
		if notFound(err) {
			return NotFoundError{"topic", topicID}
		}
		return err
	}

	return c.TopicDB.DeleteTopic(t)
}

// EnsureArticle creates the article for an assigned topic unless one
// exists. Calling it twice on the same topic yields exactly one article.
func (c *CoreDB) EnsureArticle(t DBTopic) error {
	if t.Status() != TopicAssigned || t.AssignedTo() == 0 {
		return nil
	}
	return c.WorkflowDB.EnsureArticle(t.ID(), t.ProjectID(), t.AssignedTo())
}

// SubmitContent stores the content link and moves the article to
// submitted. Writers may only submit for their own article.
//
// Note that writerSubmittedAt is not touched here. The system this ports
// never wrote it on this path, and the dashboard tolerates the zero value.
func (c *CoreDB) SubmitContent(caller auth.User, articleID int, contentLink string) (DBArticle, error) {

	if err := require(OpSubmitContent, caller); err != nil {
		return nil, err
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		if notFound(err) {
			return nil, NotFoundError{"article", articleID}
		}
		return nil, err
	}

	if !caller.Roles().Contains(auth.Admin) && !writerOwns(caller, a) {
		return nil, PermissionError{}
	}

	contentLink = NormalizeLink(contentLink)
	if contentLink == "" {
		return nil, validationErr("content link is required")
	}

	var status = ArticleSubmitted
	if err := c.ArticleDB.UpdateArticle(a, ArticlePatch{
		ContentLink: &contentLink,
		Status:      &status,
	}); err != nil {
		return nil, err
	}

	return c.GetArticle(articleID)
}

// PublishArticle stores the publish link and moves the article to
// published. An unclaimed article may be published by any publisher, who
// becomes the permanent publisher of record; afterwards only they (or an
// admin) may publish again.
func (c *CoreDB) PublishArticle(caller auth.User, articleID int, publishLink string) (DBArticle, error) {

	if err := require(OpPublishArticle, caller); err != nil {
		return nil, err
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		if notFound(err) {
			return nil, NotFoundError{"article", articleID}
		}
		return nil, err
	}

	if !caller.Roles().Contains(auth.Admin) && !publisherMayClaim(caller, a) {
		return nil, PermissionError{}
	}

	publishLink = NormalizeLink(publishLink)
	if publishLink == "" {
		return nil, validationErr("publish link is required")
	}

	var status = ArticlePublished
	var publisher = a.Publisher()
	if publisher == "" {
		publisher = userID(caller)
	}
	if err := c.ArticleDB.UpdateArticle(a, ArticlePatch{
		PublishLink: &publishLink,
		Status:      &status,
		Publisher:   &publisher,
	}); err != nil {
		return nil, err
	}

	return c.GetArticle(articleID)
}

// An ArticleUpdate carries the link fields of a combined update call.
type ArticleUpdate struct {
	ContentLink string
	PublishLink string
}

// UpdateArticle applies both link updates in one call. The content side
// effect applies if the caller qualifies for SubmitContent, the publish
// side effect if they qualify for PublishArticle. The content state is
// written first, then the publish state, so published wins when both links
// are given. If neither side applies, the call fails with a
// ValidationError and nothing is mutated.
func (c *CoreDB) UpdateArticle(caller auth.User, articleID int, upd ArticleUpdate) (DBArticle, error) {

	if err := require(OpUpdateArticle, caller); err != nil {
		return nil, err
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		if notFound(err) {
			return nil, NotFoundError{"article", articleID}
		}
		return nil, err
	}

	var contentLink = NormalizeLink(upd.ContentLink)
	var publishLink = NormalizeLink(upd.PublishLink)
	var isAdmin = caller.Roles().Contains(auth.Admin)

	var patch ArticlePatch

	if contentLink != "" && Allowed(OpSubmitContent, caller) && (isAdmin || writerOwns(caller, a)) {
		var status = ArticleSubmitted
		patch.ContentLink = &contentLink
		patch.Status = &status
	}

	if publishLink != "" && Allowed(OpPublishArticle, caller) && (isAdmin || publisherMayClaim(caller, a)) {
		var status = ArticlePublished
		var publisher = a.Publisher()
		if publisher == "" {
			publisher = userID(caller)
		}
		patch.PublishLink = &publishLink
		patch.Status = &status
		patch.Publisher = &publisher
	}

	if patch.ContentLink == nil && patch.PublishLink == nil {
		return nil, validationErr("please provide required links")
	}

	if err := c.ArticleDB.UpdateArticle(a, patch); err != nil {
		return nil, err
	}

	return c.GetArticle(articleID)
}

// DeleteArticle deletes the article, independent of its topic.
func (c *CoreDB) DeleteArticle(caller auth.User, articleID int) error {

	if err := require(OpDeleteArticle, caller); err != nil {
		return err
	}

	a, err := c.GetArticle(articleID)
	if err != nil {
		if notFound(err) {
			return NotFoundError{"article", articleID}
		}
		return err
	}

	return c.ArticleDB.DeleteArticle(a)
}

// VisibleArticles returns the articles the caller may see: all of them for
// admins and publishers, their own for writers, none for anyone else. The
// predicate is evaluated on every call, nothing is persisted.
func (c *CoreDB) VisibleArticles(caller auth.User) ([]DBArticle, error) {

	if caller == nil {
		return []DBArticle{}, nil
	}

	if caller.Roles().ContainsAny(auth.Admin, auth.Publisher) {
		return c.GetAllArticles(100000, 0) // assuming there are not more than 100k articles
	}

	if caller.Roles().Contains(auth.Writer) {
		all, err := c.GetAllArticles(100000, 0)
		if err != nil {
			return nil, err
		}
		var mine = []DBArticle{}
		for _, a := range all {
			if a.WriterID() == caller.ID() {
				mine = append(mine, a)
			}
		}
		return mine, nil
	}

	return []DBArticle{}, nil
}

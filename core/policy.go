package core

import (
	"strconv"

	"github.com/wansing/copydesk/auth"
)

// An Op names a mutating or reading operation of the workflow engine.
type Op string

const (
	OpProposeTopic   Op = "propose-topic"
	OpUpdateTopic    Op = "update-topic"
	OpDeleteTopic    Op = "delete-topic"
	OpListTopics     Op = "list-topics"
	OpSubmitContent  Op = "submit-content"
	OpPublishArticle Op = "publish-article"
	OpUpdateArticle  Op = "update-article"
	OpDeleteArticle  Op = "delete-article"
	OpListArticles   Op = "list-articles"
	OpManageProject  Op = "manage-project"
	OpViewDashboard  Op = "view-dashboard"
)

func anyOf(roles ...auth.Role) func(auth.User) bool {
	return func(u auth.User) bool {
		return u != nil && u.Roles().ContainsAny(roles...)
	}
}

// capability maps every operation to its role predicate. It is evaluated
// uniformly before any mutation, instead of ad hoc boolean checks per call
// site. Ownership checks (a writer may only touch their own article, a
// publisher may not overwrite another's claim) are entity checks and live
// with the operations.
var capability = map[Op]func(auth.User) bool{
	OpProposeTopic:   anyOf(auth.Researcher, auth.Admin),
	OpUpdateTopic:    anyOf(auth.Admin),
	OpDeleteTopic:    anyOf(auth.Admin),
	OpListTopics:     anyOf(auth.Admin, auth.Researcher, auth.Writer, auth.Publisher),
	OpSubmitContent:  anyOf(auth.Writer, auth.Admin),
	OpPublishArticle: anyOf(auth.Publisher, auth.Admin),
	OpUpdateArticle:  anyOf(auth.Admin, auth.Writer, auth.Publisher),
	OpDeleteArticle:  anyOf(auth.Admin),
	OpListArticles:   anyOf(auth.Admin, auth.Writer, auth.Publisher),
	OpManageProject:  anyOf(auth.Admin),
	OpViewDashboard:  anyOf(auth.Admin),
}

// Allowed returns whether the caller's role set satisfies the operation.
func Allowed(op Op, caller auth.User) bool {
	predicate, ok := capability[op]
	return ok && predicate(caller)
}

func require(op Op, caller auth.User) error {
	if !Allowed(op, caller) {
		return PermissionError{}
	}
	return nil
}

// writerOwns returns whether the caller is the writer of the article.
func writerOwns(caller auth.User, a DBArticle) bool {
	return caller != nil && a.WriterID() == caller.ID()
}

// publisherMayClaim returns whether the caller may publish the article:
// an unclaimed article may be published by any publisher, who becomes the
// permanent publisher of record.
func publisherMayClaim(caller auth.User, a DBArticle) bool {
	if caller == nil {
		return false
	}
	return a.Publisher() == "" || a.Publisher() == userID(caller)
}

// userID is the string form of a user id. The article publisher column
// stores it as a plain string, like the original schema did.
func userID(u auth.User) string {
	return strconv.Itoa(u.ID())
}

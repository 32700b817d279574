package core

type ArticleStatus string

const (
	// ArticleDraft is declared in the schema but unreachable, no operation
	// sets it. Kept so stored rows with this status stay valid.
	ArticleDraft     ArticleStatus = "draft"
	ArticleAssigned  ArticleStatus = "assigned"
	ArticleSubmitted ArticleStatus = "submitted"
	ArticlePublished ArticleStatus = "published"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleDraft:
		return true
	case ArticleAssigned:
		return true
	case ArticleSubmitted:
		return true
	case ArticlePublished:
		return true
	default:
		return false
	}
}

type DBArticle interface {
	ID() int
	TopicID() int   // one article per topic
	ProjectID() int // copied from the topic at creation
	WriterID() int  // immutable after creation
	Publisher() string
	ContentLink() string
	PublishLink() string
	Status() ArticleStatus
	WriterSubmittedAt() int64 // unix timestamp, 0 means unset
	PublishedAt() int64       // unix timestamp, 0 means unset
}

// An ArticlePatch holds partial updates. Nil fields are left unchanged.
type ArticlePatch struct {
	ContentLink *string
	PublishLink *string
	Status      *ArticleStatus
	Publisher   *string
}

type ArticleDB interface {
	DeleteArticle(a DBArticle) error
	GetArticle(id int) (DBArticle, error)
	GetArticleByTopic(topicID int) (DBArticle, error)
	GetAllArticles(limit, offset int) ([]DBArticle, error)
	GetArticlesByTopics(topicIDs []int) ([]DBArticle, error)
	UpdateArticle(a DBArticle, patch ArticlePatch) error
	Writeable() bool
}

package core

type TopicStatus string

const (
	TopicPending  TopicStatus = "pending"
	TopicAssigned TopicStatus = "assigned"
	// TopicCompleted is declared in the schema but no operation transitions
	// into it. Kept so stored rows with this status stay valid.
	TopicCompleted TopicStatus = "completed"
)

func (s TopicStatus) Valid() bool {
	switch s {
	case TopicPending:
		return true
	case TopicAssigned:
		return true
	case TopicCompleted:
		return true
	default:
		return false
	}
}

type TopicType string

const (
	BlogPost   TopicType = "Blog Post"
	GuestPost  TopicType = "Guest Post"
	WebContent TopicType = "Web Content"
)

func (t TopicType) Valid() bool {
	switch t {
	case BlogPost:
		return true
	case GuestPost:
		return true
	case WebContent:
		return true
	default:
		return false
	}
}

const DefaultWordCount = 1000

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func ValidMonth(month string) bool {
	for _, m := range monthNames {
		if m == month {
			return true
		}
	}
	return false
}

type DBTopic interface {
	ID() int
	Title() string
	Keywords() ([]string, error) // ordered, can be empty
	Month() string
	WordCount() int
	Type() TopicType
	ProjectID() int
	Status() TopicStatus
	ResearchSubmittedAt() int64 // unix timestamp, set at creation
	AssignedTo() int            // writer user id, 0 means unassigned
	AdminAssignedAt() int64     // unix timestamp, 0 means never assigned
	CreatedBy() string          // email address of the proposing user
}

// A TopicDraft holds the caller-supplied fields of a new topic.
type TopicDraft struct {
	Title     string
	Keywords  []string
	Month     string
	WordCount int
	Type      TopicType
	ProjectID int
}

// A TopicPatch holds partial updates. Nil fields are left unchanged.
type TopicPatch struct {
	Title      *string
	Keywords   []string // nil means unchanged, empty slice clears
	Month      *string
	WordCount  *int
	Type       *TopicType
	ProjectID  *int
	Status     *TopicStatus
	AssignedTo *int
}

// Empty returns true if the patch changes nothing.
func (p TopicPatch) Empty() bool {
	return p.Title == nil && p.Keywords == nil && p.Month == nil &&
		p.WordCount == nil && p.Type == nil && p.ProjectID == nil &&
		p.Status == nil && p.AssignedTo == nil
}

type TopicDB interface {
	DeleteTopic(t DBTopic) error
	GetTopic(id int) (DBTopic, error)
	GetAllTopics(limit, offset int) ([]DBTopic, error)
	InsertTopic(draft TopicDraft, createdBy string, researchSubmittedAt int64) (DBTopic, error)
	Writeable() bool
}

package core

type DBProject interface {
	ID() int
	Name() string
	Word() int // monthly word quota, 0 means none
	Private() bool
	CreatedBy() string
}

type ProjectDB interface {
	DeleteProject(p DBProject) error
	GetProject(id int) (DBProject, error)
	GetAllProjects(limit, offset int) ([]DBProject, error)
	InsertProject(name string, word int, private bool, createdBy string) (DBProject, error)
	UpdateProject(p DBProject, name string, word int, private bool) error
	Writeable() bool
}

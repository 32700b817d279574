package auth

type DBUser interface {
	ID() int
	Email() string
	Name() string
	Roles() RoleSet
}

type UserDB interface {
	ChangePassword(u DBUser, old, new string) error
	Delete(u DBUser) error
	GetUser(id int) (DBUser, error)
	GetUserByEmail(email string) (DBUser, error)
	GetAllUsers(limit, offset int) ([]DBUser, error)
	InsertUser(email, name string, roles RoleSet) (DBUser, error)
	LoginUser(email, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
	SetRoles(u DBUser, roles RoleSet) error
	Writeable() bool
}

type User DBUser

// GetAllUsers shadows AuthDB.UserDB.GetAllUsers.
func (a *AuthDB) GetAllUsers(limit, offset int) ([]User, error) {
	users, err := a.UserDB.GetAllUsers(limit, offset)
	result := make([]User, len(users))
	for i := range users {
		result[i] = users[i]
	}
	return result, err
}

package auth

import (
	"fmt"
	"strings"
)

type Role string

const (
	Admin      Role = "admin"
	Researcher Role = "researcher"
	Writer     Role = "writer"
	Publisher  Role = "publisher"
)

func (r Role) Valid() bool {
	switch r {
	case Admin:
		return true
	case Researcher:
		return true
	case Writer:
		return true
	case Publisher:
		return true
	default:
		return false
	}
}

// A RoleSet is an unordered set of non-exclusive roles.
type RoleSet []Role

func (rs RoleSet) Contains(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

func (rs RoleSet) ContainsAny(roles ...Role) bool {
	for _, role := range roles {
		if rs.Contains(role) {
			return true
		}
	}
	return false
}

// String joins the set with commas, which is also the storage format.
func (rs RoleSet) String() string {
	var strs = make([]string, len(rs))
	for i, r := range rs {
		strs[i] = string(r)
	}
	return strings.Join(strs, ",")
}

// ParseRoles parses a comma-separated list of role names.
// Duplicates are dropped, unknown names are an error.
func ParseRoles(s string) (RoleSet, error) {

	var rs = RoleSet{}

	for _, part := range strings.Split(s, ",") {

		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}

		var role = Role(part)
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %s", part)
		}

		if !rs.Contains(role) {
			rs = append(rs, role)
		}
	}

	return rs, nil
}

package models

import "fmt"

// GroupName is the closed set of role groups. Values are persisted as their
// canonical lowercase string form in the user_groups table.
type GroupName string

const (
	GroupUser      GroupName = "user"
	GroupModerator GroupName = "moderator"
	GroupAdmin     GroupName = "admin"
)

// Valid reports whether g is one of the known groups.
func (g GroupName) Valid() bool {
	switch g {
	case GroupUser, GroupModerator, GroupAdmin:
		return true
	}
	return false
}

func (g GroupName) String() string { return string(g) }

// ParseGroupName converts a stored string into a GroupName.
func ParseGroupName(s string) (GroupName, error) {
	g := GroupName(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown group %q", s)
	}
	return g, nil
}

// Group is a row in the user_groups table. Groups are seed data and
// effectively immutable after creation.
type Group struct {
	ID   int64
	Name GroupName
}

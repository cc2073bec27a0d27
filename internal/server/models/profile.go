package models

import (
	"fmt"
	"time"
)

// Gender is the closed set of profile genders, persisted as its string form.
type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMan, GenderWoman:
		return true
	}
	return false
}

func (g Gender) String() string { return string(g) }

func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown gender %q", s)
	}
	return g, nil
}

// Profile is the optional 1:1 extension of a user (user_profiles table).
// The user exclusively owns its profile: deleting the user deletes the
// profile in the same transaction.
type Profile struct {
	UserID      int64
	FirstName   string
	LastName    string
	AvatarKey   string
	Gender      Gender
	DateOfBirth *time.Time
	Info        string
}

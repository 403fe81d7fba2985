package users

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("users: not found")
	// ErrWrongPassword indicates the current password supplied on a
	// password change did not match the stored hash.
	ErrWrongPassword = errors.New("users: current password incorrect")
	// ErrNoChanges indicates an update request carried no field that
	// differs from the stored record.
	ErrNoChanges = errors.New("users: no changes to apply")
)

// ValidationErrors aggregates every validation failure found in a request so
// the client receives the full list in one response.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

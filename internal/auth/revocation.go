package auth

import "time"

// Revoked reports whether a token issued at issuedAt predates the user's last
// password change. A nil passwordChangedAt means the password has never
// changed since the account was created, which is distinct from a zero time:
// nil accepts every token, zero would revoke all of them.
//
// Both sides are compared at whole-second resolution, since that is all the
// token's issued-at claim preserves. A token issued within the same second as
// the change is accepted.
func Revoked(issuedAt time.Time, passwordChangedAt *time.Time) bool {
	if passwordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < passwordChangedAt.Unix()
}

package users

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"

	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Address is persisted as a single JSONB column, mirroring the original
// users table layout.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("address: cannot scan %T", value)
}

// User is the single persisted entity. PasswordChangedAt is nil until the
// first password change; a nil value means every token issued for the user
// is acceptable until its own expiry.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	FirstName         string     `gorm:"size:100;not null" json:"firstName"`
	LastName          string     `gorm:"size:100;not null" json:"lastName"`
	Email             string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	PhoneNumber       string     `gorm:"size:30" json:"phoneNumber"`
	Role              string     `gorm:"size:10;not null;default:User" json:"role"`
	Status            string     `gorm:"size:10;not null;default:Active" json:"status"`
	Address           *Address   `gorm:"type:jsonb" json:"address,omitempty"`
	ProfilePicture    *string    `json:"profilePicture,omitempty"`
	PasswordChangedAt *time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches the stored hash. A mismatch is
// not an error condition.
func (u *User) CheckPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) == nil
}

package users

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Seed populates an empty users table with 50 fake users plus the default
// admin account. A non-empty table is left untouched.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Println("users table already has data, skipping seed")
		return nil
	}

	list := make([]User, 0, 51)
	for i := 0; i < 50; i++ {
		list = append(list, fakeUser(i))
	}

	hash, err := HashPassword("password")
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	avatar := gofakeit.ImageURL(200, 200)
	list = append(list, User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        "admin@example.com",
		PasswordHash: hash,
		PhoneNumber:  gofakeit.Phone(),
		Role:         RoleAdmin,
		Status:       StatusActive,
		Address:      fakeAddress(),
		// PasswordChangedAt stays nil: a fresh account has never changed
		// its password, so every token it gets is valid until expiry.
		ProfilePicture: &avatar,
	})

	if err := db.Create(&list).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Println("seeded 50 users and the default admin")
	return nil
}

func fakeUser(i int) User {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	avatar := gofakeit.ImageURL(200, 200)
	changed := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
	return User{
		FirstName: first,
		LastName:  last,
		// The index keeps generated emails unique.
		Email:             strings.ToLower(fmt.Sprintf("%s.%s%d@example.net", first, last, i)),
		PasswordHash:      gofakeit.Password(true, true, true, true, false, 60),
		PhoneNumber:       gofakeit.Phone(),
		Role:              gofakeit.RandomString([]string{RoleAdmin, RoleUser}),
		Status:            gofakeit.RandomString([]string{StatusActive, StatusInactive}),
		Address:           fakeAddress(),
		ProfilePicture:    &avatar,
		PasswordChangedAt: &changed,
	}
}

func fakeAddress() *Address {
	return &Address{
		Street:     gofakeit.Street(),
		Number:     strconv.Itoa(gofakeit.Number(1, 9999)),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
	}
}

package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Service holds the CRUD and password-change operations. Every call reads
// current state from the store; nothing is cached between requests.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	PhoneNumber    string
	Role           string
	Status         string
	Address        *Address
	ProfilePicture *string
}

// Register validates the whole input, collecting every failure before
// answering, then persists the new user with a hashed password.
func (s *Service) Register(in RegisterInput) (*User, error) {
	var errs ValidationErrors

	if !ValidEmail(in.Email) {
		errs = append(errs, MsgInvalidEmail)
	}
	if !ValidPassword(in.Password) {
		errs = append(errs, MsgWeakPassword)
	}
	if !ValidRole(in.Role) {
		errs = append(errs, MsgInvalidRole)
	}
	if !ValidStatus(in.Status) {
		errs = append(errs, MsgInvalidStatus)
	}
	if !CompleteAddress(in.Address) {
		errs = append(errs, MsgIncompleteAddress)
	}
	if in.Email != "" {
		taken, err := s.emailTaken(in.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			errs = append(errs, MsgEmailTaken)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PasswordHash:   hash,
		PhoneNumber:    in.PhoneNumber,
		Role:           in.Role,
		Status:         in.Status,
		Address:        in.Address,
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Service) Get(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	var u User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

type ListQuery struct {
	Page   int
	Limit  int
	Role   string
	Status string
	Search string
}

type Page struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int64  `json:"totalPages"`
	TotalUsers int64  `json:"totalUsers"`
	Users      []User `json:"users"`
}

// List applies the role/status filters and the case-insensitive search over
// first name, last name and email, then paginates. A page with zero rows is
// ErrNotFound, which the HTTP layer reports as 404.
func (s *Service) List(q ListQuery) (*Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	query := s.db.Model(&User{})
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (q.Page - 1) * q.Limit
	var list []User
	if err := query.Offset(offset).Limit(q.Limit).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}

	return &Page{
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + int64(q.Limit) - 1) / int64(q.Limit),
		TotalUsers: total,
		Users:      list,
	}, nil
}

type UpdateInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Role           *string
	Status         *string
	Address        *Address
	ProfilePicture *string
}

// Update persists only the supplied fields that actually differ from the
// stored record. An update that changes nothing is ErrNoChanges rather than
// a silent no-op.
func (s *Service) Update(id uint, in UpdateInput) (*User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var errs ValidationErrors
	changes := map[string]interface{}{}

	if in.FirstName != nil && *in.FirstName != u.FirstName {
		changes["first_name"] = *in.FirstName
	}
	if in.LastName != nil && *in.LastName != u.LastName {
		changes["last_name"] = *in.LastName
	}
	if in.Email != nil && *in.Email != u.Email {
		if !ValidEmail(*in.Email) {
			errs = append(errs, MsgInvalidEmail)
		} else {
			taken, err := s.emailTaken(*in.Email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				errs = append(errs, MsgEmailTaken)
			} else {
				changes["email"] = *in.Email
			}
		}
	}
	if in.PhoneNumber != nil && *in.PhoneNumber != u.PhoneNumber {
		changes["phone_number"] = *in.PhoneNumber
	}
	if in.Role != nil && *in.Role != u.Role {
		if !ValidRole(*in.Role) {
			errs = append(errs, MsgInvalidRole)
		} else {
			changes["role"] = *in.Role
		}
	}
	if in.Status != nil && *in.Status != u.Status {
		if !ValidStatus(*in.Status) {
			errs = append(errs, MsgInvalidStatus)
		} else {
			changes["status"] = *in.Status
		}
	}
	if in.Address != nil && (u.Address == nil || *in.Address != *u.Address) {
		if !CompleteAddress(in.Address) {
			errs = append(errs, MsgIncompleteAddress)
		} else {
			changes["address"] = in.Address
		}
	}
	if in.ProfilePicture != nil && (u.ProfilePicture == nil || *in.ProfilePicture != *u.ProfilePicture) {
		changes["profile_picture"] = *in.ProfilePicture
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}

	if err := s.db.Model(u).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Get(id)
}

func (s *Service) Delete(id uint) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(u).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password and, on match, writes the new
// hash together with password_changed_at in a single UPDATE. The shared
// statement is what makes the hash and the revocation timestamp atomic with
// respect to each other: no crash can leave a new password paired with a
// stale timestamp.
func (s *Service) ChangePassword(id uint, oldPassword, newPassword string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if !u.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if !ValidPassword(newPassword) {
		return ValidationErrors{MsgWeakPassword}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	err = s.db.Model(u).Updates(map[string]interface{}{
		"password_hash":       hash,
		"password_changed_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *Service) emailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

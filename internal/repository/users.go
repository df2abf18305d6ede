package repository

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/security"
	"bitwise74/recipe-api/pkg/util"
	"context"
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// unusablePrefix marks a password hash that can never verify
const unusablePrefix = "!"

// UserFields are the optional attributes accepted by CreateUser
type UserFields struct {
	Name        string
	IsActive    *bool // defaults to true
	IsStaff     bool
	IsSuperuser bool
}

// ProfileUpdate holds the fields a user may change on their own account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

type Users struct {
	DB     *gorm.DB
	Hasher security.Hasher
}

func NewUsers(db *gorm.DB, h security.Hasher) *Users {
	return &Users{DB: db, Hasher: h}
}

// NormalizeEmail lowercases the domain part of an email address. The local
// part is kept as is since it may be case sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	i := strings.LastIndex(email, "@")
	if i < 0 {
		return email
	}

	return email[:i] + "@" + strings.ToLower(email[i+1:])
}

// CreateUser normalizes the email, hashes the password and stores a new user.
// An empty password leaves the account without a usable password.
func (u *Users) CreateUser(ctx context.Context, email, password string, f UserFields) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	hash, err := u.hashPassword(password)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}

	taken, err := u.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		ID:           id,
		Email:        email,
		Name:         f.Name,
		PasswordHash: hash,
		IsActive:     active,
		IsStaff:      f.IsStaff,
		IsSuperuser:  f.IsSuperuser,
	}

	err = u.DB.WithContext(ctx).
		Create(user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return user, nil
}

// CreateSuperuser is CreateUser with staff and superuser flags forced on
func (u *Users) CreateSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	return u.CreateUser(ctx, email, password, UserFields{
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// Authenticate returns the active user matching the credentials. Every
// failure is reported as ErrInvalidCredentials.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User

	err := u.DB.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if !u.CheckPassword(&user, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// CheckPassword reports whether password matches the stored hash
func (u *Users) CheckPassword(user *model.User, password string) bool {
	if strings.HasPrefix(user.PasswordHash, unusablePrefix) {
		return false
	}

	ok, err := u.Hasher.Verify(password, user.PasswordHash)
	return err == nil && ok
}

func (u *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := u.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

// UpdateProfile applies the non-nil fields of p to the user with userID
func (u *Users) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*model.User, error) {
	updates := map[string]any{}

	if p.Name != nil {
		updates["name"] = *p.Name
	}

	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		if email == "" {
			return nil, ErrEmailEmpty
		}

		taken, err := u.emailTaken(ctx, email, userID)
		if err != nil {
			return nil, err
		}

		if taken {
			return nil, ErrEmailTaken
		}

		updates["email"] = email
	}

	if p.Password != nil {
		hash, err := u.hashPassword(*p.Password)
		if err != nil {
			return nil, err
		}

		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		r := u.DB.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", userID).
			Updates(updates)
		if r.Error != nil {
			if errors.Is(r.Error, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}

			return nil, fmt.Errorf("failed to update user, %w", r.Error)
		}

		if r.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	return u.GetByID(ctx, userID)
}

func (u *Users) hashPassword(password string) (string, error) {
	if password == "" {
		t, err := util.GenerateToken(20)
		if err != nil {
			return "", err
		}

		return unusablePrefix + t, nil
	}

	hash, err := u.Hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password, %w", err)
	}

	return hash, nil
}

// emailTaken ignores the user with exceptID so a user can keep their own email
func (u *Users) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var count int64

	q := u.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check if email is registered, %w", err)
	}

	return count > 0, nil
}

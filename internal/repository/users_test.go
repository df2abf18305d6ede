package repository_test

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsers(t *testing.T) *repository.Users {
	t.Helper()
	return repository.NewUsers(testutil.NewDB(t), testutil.Hasher())
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
		{"  padded@Example.com ", "padded@example.com"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, repository.NormalizeEmail(tt.in), tt.in)
	}
}

func TestCreateUser(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	user, err := users.CreateUser(ctx, "email@example.com", "12345678", repository.UserFields{})
	require.NoError(t, err)

	assert.Equal(t, "email@example.com", user.Email)
	assert.Len(t, user.ID, 16)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	assert.NotEqual(t, "12345678", user.PasswordHash)
	assert.True(t, users.CheckPassword(user, "12345678"))
	assert.False(t, users.CheckPassword(user, "wrong"))

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
	assert.True(t, stored.IsActive)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	users := newUsers(t)

	user, err := users.CreateUser(context.Background(), "Local@EXAMPLE.com", "sample123", repository.UserFields{Name: "Test Name"})
	require.NoError(t, err)

	assert.Equal(t, "Local@example.com", user.Email)
	assert.Equal(t, "Test Name", user.Name)
}

func TestCreateUser_EmptyEmail(t *testing.T) {
	users := newUsers(t)

	_, err := users.CreateUser(context.Background(), "", "test123", repository.UserFields{})
	assert.ErrorIs(t, err, repository.ErrEmailEmpty)

	_, err = users.CreateUser(context.Background(), "   ", "test123", repository.UserFields{})
	assert.ErrorIs(t, err, repository.ErrEmailEmpty)
}

func TestCreateUser_Duplicate(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, "dup@example.com", "test123", repository.UserFields{})
	require.NoError(t, err)

	_, err = users.CreateUser(ctx, "dup@EXAMPLE.com", "test123", repository.UserFields{})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestCreateUser_Inactive(t *testing.T) {
	users := newUsers(t)
	inactive := false

	user, err := users.CreateUser(context.Background(), "off@example.com", "test123", repository.UserFields{IsActive: &inactive})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestCreateUser_NoPassword(t *testing.T) {
	users := newUsers(t)

	user, err := users.CreateUser(context.Background(), "nopw@example.com", "", repository.UserFields{})
	require.NoError(t, err)

	assert.False(t, users.CheckPassword(user, ""))
	_, err = users.Authenticate(context.Background(), "nopw@example.com", "")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestCreateSuperuser(t *testing.T) {
	users := newUsers(t)

	user, err := users.CreateSuperuser(context.Background(), "admin@example.com", "test123")
	require.NoError(t, err)

	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsActive)
}

func TestAuthenticate(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "auth@example.com", "pass1234", repository.UserFields{})
	require.NoError(t, err)

	user, err := users.Authenticate(ctx, "auth@EXAMPLE.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = users.Authenticate(ctx, "auth@example.com", "badpass")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "missing@example.com", "pass1234")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	require.NoError(t, users.DB.Model(&model.User{}).Where("id = ?", created.ID).Update("is_active", false).Error)
	_, err = users.Authenticate(ctx, "auth@example.com", "pass1234")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	user, err := users.CreateUser(ctx, "me@example.com", "pass1234", repository.UserFields{Name: "Old"})
	require.NoError(t, err)

	name := "Updated name"
	updated, err := users.UpdateProfile(ctx, user.ID, repository.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Updated name", updated.Name)
	assert.Equal(t, "me@example.com", updated.Email)
	assert.True(t, users.CheckPassword(updated, "pass1234"), "password must be untouched")

	pw := "newpass123"
	updated, err = users.UpdateProfile(ctx, user.ID, repository.ProfileUpdate{Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Updated name", updated.Name)
	assert.True(t, users.CheckPassword(updated, "newpass123"))
	assert.NotEqual(t, "newpass123", updated.PasswordHash)

	email := "Me@NEW.com"
	updated, err = users.UpdateProfile(ctx, user.ID, repository.ProfileUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Me@new.com", updated.Email)

	same := "Me@new.com"
	_, err = users.UpdateProfile(ctx, user.ID, repository.ProfileUpdate{Email: &same})
	assert.NoError(t, err)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, "first@example.com", "pass1234", repository.UserFields{})
	require.NoError(t, err)

	second, err := users.CreateUser(ctx, "second@example.com", "pass1234", repository.UserFields{})
	require.NoError(t, err)

	email := "first@example.com"
	_, err = users.UpdateProfile(ctx, second.ID, repository.ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestUpdateProfile_Missing(t *testing.T) {
	users := newUsers(t)

	name := "x"
	_, err := users.UpdateProfile(context.Background(), "doesnotexist", repository.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

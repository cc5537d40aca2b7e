package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gather/api/internal/model"
	"github.com/forgo/gather/api/internal/repository"
	"github.com/forgo/gather/api/internal/service"
	"github.com/forgo/gather/api/internal/testing/fixtures"
	"github.com/forgo/gather/api/internal/testing/helpers"
	"github.com/forgo/gather/api/internal/testing/testdb"
)

/*
FEATURE: Identity & Authentication
DOMAIN: Identity

ACCEPTANCE CRITERIA:
===================

AC-AUTH-001: Registration
  GIVEN a valid email, full name and password
  WHEN a user registers
  THEN an account is created with a bcrypt password hash
  AND the email is stored lowercased

AC-AUTH-002: Duplicate Email
  GIVEN an existing account
  WHEN a second registration uses the same email
  THEN registration fails with an already-exists error

AC-AUTH-003: Login
  GIVEN a registered user
  WHEN they log in with the correct password
  THEN they receive a signed bearer token
  AND a wrong password is rejected without revealing which part failed

AC-AUTH-004: Password Change
  GIVEN an authenticated user
  WHEN they change their password with the correct current password
  THEN the old password stops working and the new one works
  AND a wrong current password is rejected

AC-AUTH-005: User Lookup
  GIVEN a registered user
  WHEN another user looks them up by ID
  THEN the public profile is returned
  AND unknown IDs return a not-found error
*/

func newAuthService(tdb *testdb.TestDB, t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(
		repository.NewUserRepository(tdb.DB),
		helpers.NewTestJWTService(t),
	)
}

func TestAuth_Register(t *testing.T) {
	// AC-AUTH-001: Registration
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newAuthService(tdb, t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.FullName)
	assert.True(t, user.IsActive)

	helpers.AssertRecordExists(t, tdb.DB, "user", user.ID)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	// AC-AUTH-002: Duplicate Email
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := newAuthService(tdb, t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "taken@example.com",
		FullName: "First In",
		Password: "password-one",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{
		Email:    "taken@example.com",
		FullName: "Second In",
		Password: "password-two",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrEmailAlreadyExists), "got %v", err)
}

func TestAuth_Login(t *testing.T) {
	// AC-AUTH-003: Login
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newAuthService(tdb, t)
	ctx := context.Background()

	user := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "login@example.com"
		o.Password = "open-sesame-123"
	})

	token, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "login@example.com",
		Password: "open-sesame-123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Greater(t, token.ExpiresIn, 0)

	// The token must carry the user's identity
	jh := helpers.NewJWTHelper(t)
	claims, err := jh.Service().Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newAuthService(tdb, t)
	ctx := context.Background()

	f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "victim@example.com"
		o.Password = "real-password-1"
	})

	_, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "victim@example.com",
		Password: "guessed-wrong",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials), "got %v", err)

	// Unknown email produces the same error so accounts cannot be enumerated
	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-12345",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials), "got %v", err)
}

func TestAuth_ChangePassword(t *testing.T) {
	// AC-AUTH-004: Password Change
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newAuthService(tdb, t)
	ctx := context.Background()

	user := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "rotate@example.com"
		o.Password = "old-password-1"
	})

	err := svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "old-password-1"})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials), "old password should stop working")

	_, err = svc.Login(ctx, &model.LoginRequest{Email: user.Email, Password: "new-password-2"})
	assert.NoError(t, err, "new password should work")
}

func TestAuth_ChangePassword_WrongCurrent(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newAuthService(tdb, t)
	ctx := context.Background()

	user := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Password = "actual-password"
	})

	err := svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "not-my-password",
		NewPassword:     "irrelevant-123",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials), "got %v", err)
}

func TestAuth_GetUserByID(t *testing.T) {
	// AC-AUTH-005: User Lookup
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newAuthService(tdb, t)
	ctx := context.Background()

	user := f.CreateUser(t)

	found, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Email, found.Email)

	_, err = svc.GetUserByID(ctx, "user:doesnotexist")
	assert.True(t, errors.Is(err, service.ErrUserNotFound), "got %v", err)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/repo"
	"github.com/avdoshkin/blog_platform/internal/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	return &AuthService{
		Repo:   &repo.GormRepo{DB: db},
		Tokens: tokens.NewService([]byte("test-jwt-secret"), time.Hour),
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "empty name", userName: "", email: "a@x.com", password: "secret1"},
		{name: "empty email", userName: "Ann", email: "", password: "secret1"},
		{name: "empty password", userName: "Ann", email: "a@x.com", password: ""},
		{name: "short password", userName: "Ann", email: "a@x.com", password: "five5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Signup(ctx, tt.userName, tt.email, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Signup(ctx, "Ann", "Ann@X.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Token)

	assert.Equal(t, "ann@x.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	claims, err := svc.Tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	res, err := svc.Signup(ctx, "Bob", "ann@x.com", "secret2")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, login)
	require.NotEmpty(t, login.Token)

	signupClaims, err := svc.Tokens.Verify(signup.Token)
	require.NoError(t, err)
	loginClaims, err := svc.Tokens.Verify(login.Token)
	require.NoError(t, err)

	assert.Equal(t, signupClaims.Subject, loginClaims.Subject)
	assert.Equal(t, signupClaims.Email, loginClaims.Email)
}

func TestAuthService_Login_BadCredentials_Indistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@x.com", "secret1")
	_, errWrongPw := svc.Login(ctx, "ann@x.com", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestAuthService_Login_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret1"},
		{name: "empty password", email: "ann@x.com", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Me_ReflectsCurrentRecord(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// role changes show up without reissuing the token
	signup.User.Role = models.RoleAdmin
	require.NoError(t, svc.Repo.UpdateUser(ctx, signup.User))

	me, err := svc.Me(ctx, signup.User.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, me.Role)
	assert.Equal(t, "ann@x.com", me.Email)
}

func TestAuthService_Me_UserGone(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Delete(&models.User{}, "id = ?", signup.User.ID).Error)

	me, err := svc.Me(ctx, signup.User.ID.String())
	require.Error(t, err)
	assert.Nil(t, me)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Me_BadSubject(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	me, err := svc.Me(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Nil(t, me)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avdoshkin/blog_platform/internal/hash"
	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/repo"
	"github.com/avdoshkin/blog_platform/internal/service"
	"github.com/avdoshkin/blog_platform/internal/tokens"
)

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *tokens.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	tok := tokens.NewService([]byte("test-jwt-secret"), time.Hour)
	gormRepo := &repo.GormRepo{DB: db}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{Repo: gormRepo, Tokens: tok},
		},
		PostHandler: &PostHTTP{
			Svc: &service.PostService{Repo: gormRepo},
		},
		TokenSvc: tok,
	})

	return &testEnv{E: e, DB: db, Tokens: tok}
}

func (env *testEnv) do(t *testing.T, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func (env *testEnv) createUser(t *testing.T, name, email, password, role string) (*models.User, string) {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, env.DB.Create(&user).Error)

	token, err := env.Tokens.Issue(user.ID.String(), user.Name, user.Email, user.Role)
	require.NoError(t, err)
	return &user, token
}

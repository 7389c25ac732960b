package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdoshkin/blog_platform/internal/middleware"
	"github.com/avdoshkin/blog_platform/internal/tokens"
)

type Deps struct {
	AuthHandler *AuthHTTP
	PostHandler *PostHTTP
	TokenSvc    *tokens.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewAuth(d.TokenSvc)

	api := e.Group("/api")

	api.POST("/auth/signup", d.AuthHandler.Signup)
	api.POST("/auth/login", d.AuthHandler.Login)
	api.GET("/auth/me", d.AuthHandler.Me, authMw.RequireAuth)

	api.GET("/posts", d.PostHandler.List)
	api.GET("/posts/search", d.PostHandler.Search)
	api.GET("/posts/:slug", d.PostHandler.GetBySlug)

	api.POST("/posts", d.PostHandler.Create, authMw.RequireAuth)
	api.DELETE("/posts/:id", d.PostHandler.Delete, authMw.RequireAuth, authMw.RequireAdmin)
}

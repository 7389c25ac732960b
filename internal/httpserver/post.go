package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avdoshkin/blog_platform/internal/logging"
	"github.com/avdoshkin/blog_platform/internal/middleware"
	"github.com/avdoshkin/blog_platform/internal/service"
	"github.com/avdoshkin/blog_platform/internal/transport"
)

type PostHTTP struct {
	Svc *service.PostService
}

func (h *PostHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post_create")

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	authorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	var req transport.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("post_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Create(ctx, authorID, service.CreatePostInput{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			return echo.NewHTTPError(http.StatusConflict, "a post with this title already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHTTP) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	total, posts, err := h.Svc.List(c.Request().Context(), page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"total":   total,
		"posts":   posts,
	})
}

func (h *PostHTTP) GetBySlug(c echo.Context) error {
	post, err := h.Svc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"post":    post,
	})
}

func (h *PostHTTP) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *PostHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	total, hits, err := h.Svc.Search(c.Request().Context(), q, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"total":   total,
		"posts":   hits,
	})
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every failure as {success:false, message} so callers
// see one envelope shape no matter where the error surfaced.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	_ = c.JSON(code, echo.Map{"success": false, "message": message})
}

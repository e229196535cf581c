package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

const INVALID_REQUEST = "invalid request"

// HTTPErrorHandler renders every error as {"error": "..."}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": message})
	}
	if err != nil {
		logger.Errorf("error writing error response: %v", err)
	}
}

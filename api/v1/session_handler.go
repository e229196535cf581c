package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/ZombieDefense/internal/game"
)

var SessionService *game.SessionService

func RegisterSessionRoutes(g *echo.Group, submit ...echo.MiddlewareFunc) {
	g.POST("", CreateSessionHandler, submit...)
	g.GET("", ListSessionsHandler)
	g.GET("/:id", GetSessionHandler)
	g.PUT("/:id", UpdateSessionHandler)
	g.DELETE("/:id", DeleteSessionHandler)
}

func CreateSessionHandler(c echo.Context) error {
	var req game.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing or invalid user_id")
	}
	session, err := SessionService.RecordSession(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func ListSessionsHandler(c echo.Context) error {
	var userID *uint
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		userID = &id
	}
	sessions, err := SessionService.ListSessions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}

func GetSessionHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	session, err := SessionService.GetSession(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func UpdateSessionHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	var update game.SessionUpdate
	if err := decodeStrict(c, &update); err != nil {
		return err
	}
	session, err := SessionService.UpdateSession(c.Request().Context(), id, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func DeleteSessionHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err := SessionService.DeleteSession(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Session deleted"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// decodeStrict rejects fields the target struct does not name, which echo's
// Bind silently ignores.
func decodeStrict(c echo.Context, dst interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request: "+err.Error())
	}
	return nil
}

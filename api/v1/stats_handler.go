package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/ZombieDefense/internal/game"
)

func RegisterStatsRoutes(e *echo.Echo) {
	e.GET("/stats/:user_id", GetStatsHandler)
	e.GET("/leaderboard", GetLeaderboardHandler)
}

func GetStatsHandler(c echo.Context) error {
	userID, err := parseID(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	stats, err := SessionService.GetStats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func GetLeaderboardHandler(c echo.Context) error {
	limit := game.DefaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	entries, err := SessionService.GetLeaderboard(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/ZombieDefense/api/middleware"
	"github.com/thesrcielos/ZombieDefense/internal/user"
)

var UserService *user.UserService

func RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", RegisterHandler)
	g.POST("/login", LoginHandler)
	g.GET("/me", MeHandler, api_middleware.SetupJWTMiddleware())
}

func RegisterProfileRoutes(g *echo.Group) {
	g.Use(api_middleware.SetupJWTMiddleware())
	g.PUT("/:id", UpdateProfileHandler)
}

func RegisterHandler(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}
	resp, err := UserService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func LoginHandler(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}
	resp, err := UserService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func MeHandler(c echo.Context) error {
	userID, ok := api_middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	u, err := UserService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func UpdateProfileHandler(c echo.Context) error {
	actingID, ok := api_middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	var update user.ProfileUpdate
	if err := decodeStrict(c, &update); err != nil {
		return err
	}
	profile, err := UserService.UpdateProfile(c.Request().Context(), actingID, uint(targetID), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

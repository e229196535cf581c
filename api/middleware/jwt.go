package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/ZombieDefense/internal/user"
)

const userContextKey = "user"

func SetupJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    user.JWTSecret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    userContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(user.JwtCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		},
	})
}

// UserID returns the id carried by the token that SetupJWTMiddleware validated.
func UserID(c echo.Context) (uint, bool) {
	token, ok := c.Get(userContextKey).(*jwt.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(*user.JwtCustomClaims)
	if !ok {
		return 0, false
	}
	return claims.Id, true
}

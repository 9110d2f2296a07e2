package http

import (
	"net/http"
	"strings"

	"cylindertrack/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ActorMiddleware validates the bearer token on mutating routes and installs
// the resulting actor on the request context. Every layer below reads the
// same identity from there; requests without a valid token never reach a
// handler.
func ActorMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Authorization header required",
				})
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Authorization header must be in format 'Bearer <token>'",
				})
			}

			token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "The provided token is invalid or expired",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "The provided token carries no claims",
				})
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "The provided token identifies no usable actor",
				})
			}

			request := c.Request()
			c.SetRequest(request.WithContext(kernel.WithActor(request.Context(), actor)))
			return next(c)
		}
	}
}

func actorFromClaims(claims jwt.MapClaims) (kernel.Actor, error) {
	empNo, _ := claims["emp_no"].(string)
	role, _ := claims["role"].(string)
	if empNo == "" || role == "" {
		return kernel.Actor{}, jwt.ErrTokenInvalidClaims
	}

	actor := kernel.Actor{
		EmpNo:         empNo,
		Role:          kernel.Role(role),
		Source:        "http",
		CorrelationID: kernel.NewUUID(),
	}

	if rawSite, okSite := claims["site_id"].(string); okSite && rawSite != "" {
		siteID, err := kernel.UUIDFromString(rawSite)
		if err != nil {
			return kernel.Actor{}, err
		}
		actor.SiteID = &siteID
	}

	return actor, nil
}

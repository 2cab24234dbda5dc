package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sweetshop/internal/auth"
	"sweetshop/internal/config"
	"sweetshop/internal/errors"
	"sweetshop/internal/handler"
)

// bodyLimit bounds JSON payloads; inline base64 images make bodies large.
const bodyLimit = "10M"

// Register wires routes and middleware. Read endpoints are public; every
// mutation sits behind the JWT group.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sweetHandler *handler.SweetHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/sweets", sweetHandler.ListSweets)
	api.GET("/sweets/:id", sweetHandler.GetSweet)

	// Mutations require a valid bearer token. Missing, malformed and expired
	// tokens all collapse to the same 401.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid bearer token",
				Code:  "UNAUTHORIZED",
			})
		},
	}))
	secured.Use(rejectRevoked(jwtService, tokenStore))

	secured.POST("/sweets", sweetHandler.CreateSweet)
	secured.PUT("/sweets/:id", sweetHandler.UpdateSweet)
	secured.DELETE("/sweets/:id", sweetHandler.DeleteSweet)
	secured.POST("/sweets/:id/restock", sweetHandler.RestockSweet)
}

// rejectRevoked runs after signature verification and rejects access tokens
// that logout blacklisted before their expiry.
func rejectRevoked(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(strings.TrimPrefix(
				c.Request().Header.Get(echo.HeaderAuthorization), "Bearer"))
			tokenID, err := jwtService.ExtractTokenID(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid bearer token",
					Code:  "UNAUTHORIZED",
				})
			}
			if revoked, _ := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), tokenID); revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "token has been revoked",
					Code:  "TOKEN_REVOKED",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

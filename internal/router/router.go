package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"harlos/internal/auth"
	"harlos/internal/config"
	apperrors "harlos/internal/errors"
	"harlos/internal/handler"
	"harlos/internal/ws"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	notifier *ws.Notifier,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require the session cookie)
	secured := api.Group("", sessionMiddleware(jwtService))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/onboarding", authHandler.Onboarding)

	// User routes
	secured.GET("/users", userHandler.RecommendedUsers)
	secured.GET("/users/friends", userHandler.Friends)
	secured.POST("/users/friend-request/:id", userHandler.SendFriendRequest)
	secured.PUT("/users/friend-request/:id/accept", userHandler.AcceptFriendRequest)
	secured.GET("/users/friend-requests", userHandler.FriendRequests)
	secured.GET("/users/outgoing-friend-requests", userHandler.OutgoingFriendRequests)

	// Chat routes
	secured.GET("/chat/token", chatHandler.Token)

	// Connection notification scaffold
	secured.GET("/ws", notifier.Handler())
}

// sessionMiddleware reads the session token from the cookie and verifies it
// through the issuer so expired and invalid tokens keep distinct codes.
func sessionMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.SessionCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(unwrapSessionError(err))
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// unwrapSessionError normalizes middleware errors (missing cookie, parse
// failure) to the token taxonomy.
func unwrapSessionError(err error) error {
	if errors.Is(err, apperrors.ErrExpiredToken) {
		return apperrors.ErrExpiredToken
	}
	return apperrors.ErrInvalidToken
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

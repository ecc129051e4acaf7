package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"rosterup/internal/auth"
	"rosterup/internal/config"
	apperrors "rosterup/internal/errors"
	"rosterup/internal/handler"
	"rosterup/internal/metrics"
	"rosterup/internal/model"
	"rosterup/internal/service"
)

const (
	basePath = "/api/roster-up/v1"

	userContextKey   = "authUser"
	claimsContextKey = "authClaims"
)

// subdomainPattern is the DNS-label shape required of tenant subdomains.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	tenantHandler *handler.TenantHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware)

	e.Validator = NewCustomValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(basePath)

	// Public auth routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes: signature check via echo-jwt, then the persisted token
	// record must still be valid (rotation and logout flag rotated-out rows).
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
		}),
		requireValidToken(authService),
	)

	// Tenant administration requires the DEV role.
	tenants := secured.Group("/tenants", requireRole(model.RoleDev))
	tenants.GET("", tenantHandler.GetAll)
	tenants.POST("", tenantHandler.Create)
	tenants.GET("/search/name", tenantHandler.SearchByName)
	tenants.GET("/search/active", tenantHandler.SearchByActive)
	tenants.GET("/subdomains/:subdomainName", tenantHandler.GetBySubdomain)
	tenants.GET("/:id", tenantHandler.GetByID)
	tenants.PUT("/:id", tenantHandler.Update)
	tenants.DELETE("/:id", tenantHandler.Delete)

	// User administration requires the ADMIN role.
	users := secured.Group("/users", requireRole(model.RoleAdmin))
	users.GET("", userHandler.GetAll)
	users.POST("", userHandler.Create)
	users.GET("/search/username/:username", userHandler.GetByUsername)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
}

// requireValidToken re-validates the bearer token against the token store and
// attaches the authenticated user and claims to the request context.
func requireValidToken(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := auth.ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return unauthorized(c)
			}
			user, claims, err := authService.ValidateAccessToken(c.Request().Context(), raw)
			if err != nil {
				return unauthorized(c)
			}
			c.Set(userContextKey, user)
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// requireRole rejects requests whose token does not carry the given role.
func requireRole(role model.RoleName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*auth.Claims)
			if !ok {
				return unauthorized(c)
			}
			for _, r := range claims.Roles {
				if r == string(role) {
					return next(c)
				}
			}
			body := apperrors.NewErrorResponse("Forbidden", http.StatusForbidden,
				apperrors.ErrInvalidToken, "insufficient role for this resource")
			return c.JSON(http.StatusForbidden, body)
		}
	}
}

func unauthorized(c echo.Context) error {
	body := apperrors.NewErrorResponse("Authentication Failed", http.StatusUnauthorized,
		apperrors.ErrInvalidToken, apperrors.ErrInvalidToken.Error())
	return c.JSON(http.StatusUnauthorized, body)
}

// CustomValidator wraps validator for Echo, extended with the subdomain rule.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds the request validator.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return subdomainPattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

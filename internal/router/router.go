package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"etshoes/internal/auth"
	"etshoes/internal/handler"
	"etshoes/internal/model"
	"etshoes/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	sellerHandler *handler.SellerHandler,
	adminHandler *handler.AdminHandler,
	catalogHandler *handler.CatalogHandler,
	chatHandler *handler.ChatHandler,
	seedHandler *handler.SeedHandler,
) {
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()

	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "etshoes",
		Registerer: metrics,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: metrics}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/password/forgot", authHandler.ForgotPassword)
	api.POST("/auth/password/reset", authHandler.ResetPassword)

	api.GET("/products", catalogHandler.Shop)
	api.GET("/products/:id", catalogHandler.ProductDetail)
	api.GET("/products/:id/variants", catalogHandler.ProductVariants)

	api.POST("/chat", chatHandler.Chat)

	// Secured routes (require a valid, unrevoked access token)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  jwtService.Secret(),
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return session.Unauthenticated()
			},
		}),
		session.Middleware(tokenStore),
	)

	secured.GET("/session", authHandler.Session)
	secured.POST("/auth/logout", authHandler.Logout)

	// Seller workspace
	seller := secured.Group("/seller", session.RequireRoles(model.RoleSeller))
	seller.GET("/eligibility", sellerHandler.Eligibility)
	seller.GET("/offers", sellerHandler.ListOffers)
	seller.POST("/offers", sellerHandler.SubmitOffers)
	seller.PUT("/offers/:id", sellerHandler.UpdateOffer)
	seller.DELETE("/offers/:id", sellerHandler.DeleteOffer)

	// Admin panel
	admin := secured.Group("/admin", session.RequireRoles(model.RoleAdmin))
	admin.GET("/sellers", adminHandler.ListSellers)
	admin.GET("/sellers/export.csv", adminHandler.ExportSellers)
	admin.POST("/sellers/:id/toggle-status", adminHandler.ToggleSellerStatus)
	admin.POST("/sellers/:id/toggle-verified", adminHandler.ToggleSellerVerified)
	admin.PUT("/sellers/:id/status", adminHandler.SetSellerStatus)

	admin.GET("/products", adminHandler.ListProducts)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.DELETE("/products/:id", adminHandler.DeleteProduct)

	admin.GET("/variants", adminHandler.ListVariants)
	admin.POST("/variants", adminHandler.CreateVariant)

	admin.POST("/uploads", adminHandler.UploadImages)
	admin.POST("/seed/products", seedHandler.ImportProducts)
}

// RequestLogger logs every request through the global zap logger.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				zap.L().Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

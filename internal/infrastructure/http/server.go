package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/appcrates/payment-service/internal/adapter/handler/http"
	"github.com/appcrates/payment-service/internal/config"
	"github.com/appcrates/payment-service/internal/infrastructure/database"
	"github.com/appcrates/payment-service/internal/infrastructure/provider/stripe"
	"github.com/appcrates/payment-service/internal/middleware/auth"
	"github.com/appcrates/payment-service/internal/usecase"
)

// CustomValidator wraps go-playground/validator for echo's Validate hook.
type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Gateway provider and usecases
	provider := stripe.NewProvider(
		s.config.Service.StripeSecretKey,
		s.config.Service.StripeWebhookSecret,
		s.logger,
	)
	linker := usecase.NewAccountLinker(provider, s.repos.PaymentAccount, s.repos.User, s.logger)
	transactions := usecase.NewTransactionService(provider, s.repos.PaymentAccount, s.logger)
	webhooks := usecase.NewWebhookService(provider, s.repos.PaymentAccount, s.repos.User, s.logger)

	accountHandler := handlers.NewAccountHandler(linker, s.logger)
	transactionHandler := handlers.NewTransactionHandler(transactions, s.logger)
	webhookHandler := handlers.NewWebhookHandler(webhooks, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/api/v1/webhooks",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Webhook route (signature-verified, no JWT)
	v1.POST("/webhooks/stripe", webhookHandler.HandleWebhook)

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	accounts := protected.Group("/accounts")
	accounts.POST("/customer", accountHandler.GetOrCreateCustomer)
	accounts.POST("/connected", accountHandler.GetOrCreateConnectedAccount)
	accounts.POST("/sources", accountHandler.AttachSource)
	accounts.POST("/onboarding-link", accountHandler.CreateOnboardingLink)

	transactionsGroup := protected.Group("/transactions")
	transactionsGroup.POST("/charges", transactionHandler.CreateCharge)
	transactionsGroup.POST("/refunds", transactionHandler.CreateRefund)
	transactionsGroup.POST("/transfers", transactionHandler.CreateTransfer)
	transactionsGroup.POST("/topups", transactionHandler.CreateTopUp)
	transactionsGroup.POST("/payment-intents", transactionHandler.CreatePaymentIntent)
	transactionsGroup.POST("/payment-intents/:id/capture", transactionHandler.CapturePaymentIntent)
	transactionsGroup.POST("/payment-intents/:id/cancel", transactionHandler.CancelPaymentIntent)
	transactionsGroup.POST("/payment-intents/:id/refund", transactionHandler.RefundPaymentIntent)
	transactionsGroup.GET("/sources", transactionHandler.GetCustomerSources)

	// Bulk maintenance endpoints
	admin := protected.Group("/admin")
	admin.POST("/customers/provision", accountHandler.ProvisionCustomers)
	admin.DELETE("/customers", accountHandler.RemoveCustomers)
}

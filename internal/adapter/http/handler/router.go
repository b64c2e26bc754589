package handler

import (
	"blended-settlement/internal/adapter/http/middleware"
	"blended-settlement/internal/core/ports"
	"blended-settlement/pkg/obfuscate"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20 // 1 MiB

// RouterDeps bundles everything the HTTP layer needs.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	TxnSvc         ports.TransactionService
	LedgerSvc      ports.LedgerService
	CustomerRepo   ports.CustomerRepository
	TokenSvc       ports.TokenService
	Codec          *obfuscate.Codec
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.MaxBodySize(maxRequestBody))

	authHandler := NewAuthHandler(deps.AuthSvc)
	paymentHandler := NewPaymentHandler(deps.TxnSvc, deps.Codec)
	creditHandler := NewCreditHandler(deps.LedgerSvc, deps.CustomerRepo)

	router.GET("/healthz", HealthCheck(deps.HealthCheckers...))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(deps.TokenSvc, deps.Logger))
	{
		payments := protected.Group("/payments")
		{
			payments.POST("/authorize", paymentHandler.Authorize)
			payments.GET("/:id", paymentHandler.Get)
			payments.POST("/:id/capture", paymentHandler.Capture)
			payments.POST("/:id/cancel", paymentHandler.Cancel)
			payments.POST("/:id/refund", paymentHandler.Refund)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("/:id/credit", creditHandler.GetCredit)
			customers.POST("/:id/credit", creditHandler.GrantCredit)
			customers.POST("/:id/credit/allow", creditHandler.AllowCredit)
			customers.POST("/:id/coupons", creditHandler.ApplyCoupon)
		}
	}

	return router
}

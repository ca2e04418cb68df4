package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "stockfolio/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler      *AuthHandler
	PortfolioHandler *PortfolioHandler
	AdminHandler     *AdminHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for health probes to reduce noise
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/admin/system/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	e.GET("/", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"message": "Stockfolio API",
			"endpoints": map[string]string{
				"health":    "GET /health",
				"buy":       "POST /api/portfolio/buy",
				"sell":      "POST /api/portfolio/sell",
				"positions": "GET /api/portfolio/positions",
				"summary":   "GET /api/portfolio/summary",
			},
		})
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "stockfolio-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.POST("/register", config.AuthHandler.Register)
	}

	// Portfolio routes (protected with AuthMiddleware)
	portfolio := api.Group("/portfolio", custommiddleware.AuthMiddleware)
	{
		portfolio.POST("/buy", config.PortfolioHandler.Buy)
		portfolio.POST("/sell", config.PortfolioHandler.Sell)
		portfolio.GET("/positions", config.PortfolioHandler.ListPositions)
		portfolio.GET("/positions/:symbol", config.PortfolioHandler.GetPosition)
		portfolio.GET("/summary", config.PortfolioHandler.GetSummary)
	}

	// Admin routes (protected with Auth + Admin middleware)
	admin := api.Group("/admin", custommiddleware.AuthMiddleware, custommiddleware.AdminMiddleware)
	{
		admin.GET("/system/health", config.AdminHandler.GetSystemHealth)
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
		admin.POST("/snapshot/trigger", config.AdminHandler.TriggerSnapshot)
	}
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/electromart/storeapi/internal/auth"
	"github.com/electromart/storeapi/internal/catalog"
	"github.com/electromart/storeapi/internal/database"
	"github.com/electromart/storeapi/internal/images"
	"github.com/electromart/storeapi/internal/orders"
	"github.com/electromart/storeapi/internal/reports"
)

type Server struct {
	router  *gin.Engine
	db      *database.DB
	logger  *zap.Logger
	catalog *catalog.Service
	orders  *orders.Writer
	reports *reports.Service
	auth    *auth.Service
	images  *images.Fetcher
}

// NewServer creates a new server instance
func NewServer(
	db *database.DB,
	logger *zap.Logger,
	catalogSvc *catalog.Service,
	orderWriter *orders.Writer,
	reportsSvc *reports.Service,
	authSvc *auth.Service,
	fetcher *images.Fetcher,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:  router,
		db:      db,
		logger:  logger,
		catalog: catalogSvc,
		orders:  orderWriter,
		reports: reportsSvc,
		auth:    authSvc,
		images:  fetcher,
	}

	router.Use(server.requestLogger())
	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.POST("/auth/login", s.login)

		api.GET("/products", s.listProducts)
		api.GET("/categories", s.listRootCategories)
		api.GET("/images", s.proxyImage)

		api.POST("/orders", s.createOrder)
		api.GET("/orders/:id", s.getOrder)
		api.POST("/orders/:id/cancel", s.cancelOrder)
		api.GET("/customers/:id/orders", s.listCustomerOrders)
		api.GET("/customers/:id/addresses", s.listCustomerAddresses)

		admin := api.Group("/admin")
		{
			admin.GET("/products", s.adminListProducts)
			admin.GET("/products/:id", s.adminGetProduct)
			admin.POST("/products", s.adminAddProduct)
			admin.PUT("/products/:id", s.adminUpdateProduct)
			admin.DELETE("/products/:id", s.adminDeleteProduct)
			admin.PUT("/products/:id/image", s.adminSetPrimaryImage)
			admin.PUT("/products/:id/stock", s.adminSetStock)

			admin.GET("/categories", s.adminListCategories)
			admin.POST("/categories", s.adminAddCategory)
			admin.PUT("/categories/:id", s.adminUpdateCategory)
			admin.DELETE("/categories/:id", s.adminDeleteCategory)

			admin.GET("/orders", s.adminListOrders)
			admin.GET("/users", s.adminListUsers)
			admin.GET("/dashboard", s.dashboard)
			admin.GET("/reports/daily", s.dailySalesReport)
			admin.GET("/reports/categories", s.categorySalesReport)
		}
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "electromart",
		"version": "0.1.0",
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

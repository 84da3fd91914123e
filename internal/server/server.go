package server

import (
	"net/http"

	"coaching-checkout/internal/apperror"
	"coaching-checkout/internal/auth"
	"coaching-checkout/internal/handler"
	custommw "coaching-checkout/internal/middleware"
	"coaching-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	adminHandler   *handler.AdminHandler
	webhookHandler *handler.WebhookHandler
}

func NewServer(
	orderService service.OrderService,
	receiptService service.ReceiptService,
	planService service.PlanService,
	sessions *auth.SessionManager,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = errorHandler

	orderHandler := handler.NewOrderHandler(orderService, receiptService, planService)
	adminHandler := handler.NewAdminHandler(orderService, receiptService, sessions)
	webhookHandler := handler.NewWebhookHandler(orderService)

	s := &Server{
		echo:           e,
		orderHandler:   orderHandler,
		adminHandler:   adminHandler,
		webhookHandler: webhookHandler,
	}

	s.setupRoutes(sessions)
	return s
}

func (s *Server) setupRoutes(sessions *auth.SessionManager) {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/plans", s.orderHandler.GetCatalog)

	// -------- orders --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders/:orderId", s.orderHandler.GetOrder)
	api.POST("/orders/:orderId/receipt", s.orderHandler.UploadReceipt)

	// -------- gateway webhooks --------
	api.POST("/payments/webhook", s.webhookHandler.PaymentWebhook)
	api.GET("/payments/webhook", s.webhookHandler.PaymentWebhook)

	// -------- admin --------
	api.POST("/admin/login", s.adminHandler.Login)

	admin := api.Group("/admin", custommw.AdminGuard(sessions))
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.POST("/orders/:orderId/status", s.adminHandler.SetOrderStatus)
	admin.GET("/orders/:orderId/receipts", s.adminHandler.ListOrderReceipts)
}

// errorHandler maps the error taxonomy to HTTP statuses and a flat error body.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case apperror.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case apperror.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	case apperror.IsForbidden(err):
		status = http.StatusForbidden
		message = err.Error()
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		}
	}

	_ = c.JSON(status, map[string]string{"error": message})
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

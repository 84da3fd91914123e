package handler

import (
	"net/http"
	"time"

	"coaching-checkout/internal/auth"
	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	orderService   service.OrderService
	receiptService service.ReceiptService
	sessions       *auth.SessionManager
}

func NewAdminHandler(orderService service.OrderService, receiptService service.ReceiptService, sessions *auth.SessionManager) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		receiptService: receiptService,
		sessions:       sessions,
	}
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req dto.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if !h.sessions.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	}

	now := time.Now()
	token, err := h.sessions.Issue(now)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.Cookie(token, now))
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.List(ctx, c.QueryParam("status"), c.QueryParam("q"))
	if err != nil {
		return err
	}

	out := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = orderToResponse(order)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.orderService.SetStatus(ctx, c.Param("orderId"), req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminHandler) ListOrderReceipts(c echo.Context) error {
	ctx := c.Request().Context()

	receipts, err := h.receiptService.ListForOrder(ctx, c.Param("orderId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, receipts)
}

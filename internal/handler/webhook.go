package handler

import (
	"log"
	"net/http"

	"coaching-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	orderService service.OrderService
}

func NewWebhookHandler(orderService service.OrderService) *WebhookHandler {
	return &WebhookHandler{
		orderService: orderService,
	}
}

// PaymentWebhook receives the gateway's asynchronous notification. The
// response is 200 ok no matter what: an error here would make the gateway
// retry without bound for conditions we treat as benign.
func (h *WebhookHandler) PaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	topic := c.QueryParam("topic")
	if topic == "" {
		topic = c.QueryParam("type")
	}
	paymentID := c.QueryParam("id")
	if paymentID == "" {
		paymentID = c.QueryParam("data.id")
	}

	if topic == "payment" {
		if err := h.orderService.HandlePaymentNotification(ctx, topic, paymentID); err != nil {
			log.Println("handle payment notification:", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

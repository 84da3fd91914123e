package handler

import (
	"net/http"

	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/model"
	"coaching-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService   service.OrderService
	receiptService service.ReceiptService
	planService    service.PlanService
}

func NewOrderHandler(orderService service.OrderService, receiptService service.ReceiptService, planService service.PlanService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		receiptService: receiptService,
		planService:    planService,
	}
}

func orderToResponse(order *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		OrderID:       order.OrderID,
		PlanCode:      order.PlanCode,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerRef:   order.CustomerRef,
		PaymentMethod: string(order.PaymentMethod),
		AmountARS:     order.AmountARS.String(),
		ExtraVideo:    order.ExtraVideo,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func (h *OrderHandler) GetCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	catalog, err := h.planService.Catalog(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, catalog)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.orderService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderId")
	email := c.QueryParam("email")

	order, err := h.orderService.GetForCustomer(ctx, orderID, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderToResponse(order))
}

func (h *OrderHandler) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderId")
	email := c.FormValue("email")
	reference := c.FormValue("reference")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing receipt file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read receipt file")
	}
	defer file.Close()

	upload := &service.ReceiptUpload{
		Body:         file,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		OriginalName: fileHeader.Filename,
	}

	if err := h.receiptService.Attach(ctx, orderID, email, upload, reference); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

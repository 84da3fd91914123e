package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"coaching-checkout/internal/apperror"
	"coaching-checkout/internal/client"
	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/metrics"
	"coaching-checkout/internal/model"
	"coaching-checkout/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderIDPrefix = "FIT"

// gateway status that flips an order to paid; every other status is ignored
// and left to the receipt-review or admin path.
const gatewayStatusApproved = "approved"

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type OrderService interface {
	Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetForCustomer(ctx context.Context, orderID, email string) (*model.Order, error)
	List(ctx context.Context, status, query string) ([]*model.Order, error)
	SetStatus(ctx context.Context, orderID, status string) error
	HandlePaymentNotification(ctx context.Context, topic, paymentID string) error
}

type orderServiceImpl struct {
	mpClient         client.MercadoPagoClient
	serviceBaseURL   string
	extraVideoPrice  decimal.Decimal
	planRepo         repository.PlanRepository
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
}

func NewOrderService(
	mpClient client.MercadoPagoClient,
	serviceBaseURL string,
	extraVideoPriceARS int64,
	planRepo repository.PlanRepository,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
) OrderService {
	return &orderServiceImpl{
		mpClient:         mpClient,
		serviceBaseURL:   serviceBaseURL,
		extraVideoPrice:  decimal.NewFromInt(extraVideoPriceARS),
		planRepo:         planRepo,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
	}
}

func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s-%s", orderIDPrefix, now.Format("20060102"), suffix)
}

func (s *orderServiceImpl) Create(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperror.ErrValidation)
	}
	if !emailShape.MatchString(req.Email) {
		return nil, fmt.Errorf("%w: invalid email", apperror.ErrValidation)
	}

	method := model.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperror.ErrValidation, req.PaymentMethod)
	}

	plan, err := s.planRepo.FindByCode(ctx, req.PlanCode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: plan %q", apperror.ErrNotFound, req.PlanCode)
		}
		return nil, fmt.Errorf("%w: find plan: %v", apperror.ErrUpstream, err)
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: plan %q", apperror.ErrNotFound, req.PlanCode)
	}

	// Total is computed exactly once, here. Nothing recomputes it later.
	total := plan.PriceARS
	if req.ExtraVideo {
		total = total.Add(s.extraVideoPrice)
	}

	order := &model.Order{
		OrderID:            newOrderID(time.Now()),
		PlanCode:           plan.Code,
		CustomerName:       strings.TrimSpace(req.Name),
		CustomerEmail:      strings.ToLower(strings.TrimSpace(req.Email)),
		CustomerRef:        strings.TrimSpace(req.CustomerRef),
		PaymentMethod:      method,
		AmountARS:          total,
		ExtraVideo:         req.ExtraVideo,
		ExtraVideoPriceARS: s.extraVideoPrice,
		Status:             model.StatusAwaitingPayment,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: store order: %v", apperror.ErrUpstream, err)
	}

	metrics.OrdersCreated.WithLabelValues(string(method)).Inc()

	resp := &dto.CreateOrderResponse{
		OK:      true,
		OrderID: order.OrderID,
	}

	if method == model.MethodMercadoPago {
		amount, _ := total.Float64()
		pref, err := s.mpClient.CreatePreference(ctx, order.OrderID, plan.Name, amount, s.serviceBaseURL)
		if err != nil {
			// The order stays valid in awaiting_payment; the customer can
			// retry payment against it separately.
			log.Println("create payment preference:", err)
			return resp, nil
		}
		resp.PaymentURL = pref.InitPoint
	}

	return resp, nil
}

func (s *orderServiceImpl) GetForCustomer(ctx context.Context, orderID, email string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: order %q", apperror.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: find order: %v", apperror.ErrUpstream, err)
	}

	if !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		return nil, fmt.Errorf("%w: email does not match order", apperror.ErrForbidden)
	}

	return order, nil
}

func (s *orderServiceImpl) List(ctx context.Context, status, query string) ([]*model.Order, error) {
	st := model.OrderStatus(status)
	if status != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrValidation, status)
	}

	orders, err := s.orderRepo.List(ctx, st, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", apperror.ErrUpstream, err)
	}

	return orders, nil
}

// SetStatus is the admin escape hatch: the target status only has to be one
// of the four known values, no transition validation beyond that.
func (s *orderServiceImpl) SetStatus(ctx context.Context, orderID, status string) error {
	st := model.OrderStatus(status)
	if !st.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperror.ErrValidation, status)
	}

	err := s.orderRepo.SetStatus(ctx, orderID, st)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: order %q", apperror.ErrNotFound, orderID)
		}
		return fmt.Errorf("%w: set status: %v", apperror.ErrUpstream, err)
	}

	return nil
}

// HandlePaymentNotification resolves the gateway payment behind an inbound
// webhook and applies the approved → paid transition. It tolerates duplicate
// delivery and unknown references silently; the gateway must never see an
// error for conditions this system treats as benign.
func (s *orderServiceImpl) HandlePaymentNotification(ctx context.Context, topic, paymentID string) error {
	if paymentID == "" {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	seen, err := s.webhookEventRepo.Exists(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%w: webhook dedup lookup: %v", apperror.ErrUpstream, err)
	}
	if seen {
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}

	payment, err := s.mpClient.GetPayment(ctx, paymentID)
	if err != nil {
		// Fail closed: report the lookup failure, mutate nothing.
		return fmt.Errorf("%w: payment lookup: %v", apperror.ErrUpstream, err)
	}

	if payment.Status != gatewayStatusApproved {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	_, err = s.orderRepo.MarkPaid(ctx, payment.ExternalReference, paymentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Unknown reference: already handled or unrelated. Acknowledge so
			// the gateway stops retrying.
			metrics.WebhookEvents.WithLabelValues("unknown_reference").Inc()
			return nil
		}
		return fmt.Errorf("%w: mark order paid: %v", apperror.ErrUpstream, err)
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, paymentID, topic); err != nil {
		log.Println("mark webhook processed:", err)
	}

	metrics.WebhookEvents.WithLabelValues("paid").Inc()
	return nil
}

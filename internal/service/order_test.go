package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coaching-checkout/internal/apperror"
	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/model"
	"coaching-checkout/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testExtraVideoPrice = 15000

func newOrderFixture(t *testing.T) (OrderService, *fakeGateway, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	seedTestPlans(t, db)

	gateway := newFakeGateway()
	svc := NewOrderService(
		gateway, "http://localhost:8080", testExtraVideoPrice,
		repository.NewPlanRepository(db),
		repository.NewOrderRepository(db),
		repository.NewWebhookEventRepository(db),
	)

	return svc, gateway, db
}

func createTestOrder(t *testing.T, svc OrderService, method string) *dto.CreateOrderResponse {
	t.Helper()

	resp, err := svc.Create(context.Background(), &dto.CreateOrderRequest{
		PlanCode:      "semanal-7",
		PaymentMethod: method,
		Name:          "Juan Pérez",
		Email:         "juan@example.com",
	})
	require.NoError(t, err)
	return resp
}

func findOrder(t *testing.T, db *gorm.DB, orderID string) *model.Order {
	t.Helper()

	var order model.Order
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	return &order
}

func TestCreateOrderBaseTotal(t *testing.T) {
	svc, _, db := newOrderFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateOrderRequest{
		PlanCode:      "semanal-7",
		PaymentMethod: "bank_transfer",
		Name:          "Juan Pérez",
		Email:         "juan@example.com",
		ExtraVideo:    false,
	})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.NotEmpty(t, resp.OrderID)
	assert.Empty(t, resp.PaymentURL)

	order := findOrder(t, db, resp.OrderID)
	assert.Equal(t, "38000", order.AmountARS.String())
	assert.Equal(t, model.StatusAwaitingPayment, order.Status)
	assert.False(t, order.ExtraVideo)
}

func TestCreateOrderExtraVideoTotal(t *testing.T) {
	svc, _, db := newOrderFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateOrderRequest{
		PlanCode:      "semanal-7",
		PaymentMethod: "bank_transfer",
		Name:          "Juan Pérez",
		Email:         "juan@example.com",
		ExtraVideo:    true,
	})
	require.NoError(t, err)

	order := findOrder(t, db, resp.OrderID)
	assert.Equal(t, "53000", order.AmountARS.String())
	assert.Equal(t, "15000", order.ExtraVideoPriceARS.String())
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateOrderRequest{
		PlanCode: "semanal-7", PaymentMethod: "bank_transfer", Name: "", Email: "a@b.co",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, &dto.CreateOrderRequest{
		PlanCode: "semanal-7", PaymentMethod: "bank_transfer", Name: "Juan", Email: "not-an-email",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, &dto.CreateOrderRequest{
		PlanCode: "semanal-7", PaymentMethod: "paypal", Name: "Juan", Email: "a@b.co",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, &dto.CreateOrderRequest{
		PlanCode: "no-such-plan", PaymentMethod: "bank_transfer", Name: "Juan", Email: "a@b.co",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateOrderGatewayMethodReturnsPaymentURL(t *testing.T) {
	svc, gateway, _ := newOrderFixture(t)

	resp := createTestOrder(t, svc, "mercadopago")

	assert.Equal(t, "https://gateway.test/checkout/"+resp.OrderID, resp.PaymentURL)
	assert.Equal(t, []string{resp.OrderID}, gateway.createdRefs)
}

func TestCreateOrderSurvivesGatewayFailure(t *testing.T) {
	svc, gateway, db := newOrderFixture(t)
	gateway.prefErr = errors.New("gateway down")

	resp := createTestOrder(t, svc, "mercadopago")

	// The order row is not rolled back; the customer retries payment later.
	assert.Empty(t, resp.PaymentURL)
	order := findOrder(t, db, resp.OrderID)
	assert.Equal(t, model.StatusAwaitingPayment, order.Status)
}

func TestOrderIDsUniqueUnderConcurrentCreation(t *testing.T) {
	svc, _, _ := newOrderFixture(t)

	const n = 20
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Create(context.Background(), &dto.CreateOrderRequest{
				PlanCode:      "semanal-7",
				PaymentMethod: "bank_transfer",
				Name:          "Juan Pérez",
				Email:         "juan@example.com",
			})
			if err == nil {
				ids <- resp.OrderID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestGetForCustomer(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	resp := createTestOrder(t, svc, "bank_transfer")
	ctx := context.Background()

	order, err := svc.GetForCustomer(ctx, resp.OrderID, "JUAN@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, resp.OrderID, order.OrderID)

	_, err = svc.GetForCustomer(ctx, resp.OrderID, "otra@example.com")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.GetForCustomer(ctx, "FIT-20240101-abc123", "juan@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetStatusOverride(t *testing.T) {
	svc, _, db := newOrderFixture(t)
	resp := createTestOrder(t, svc, "bank_transfer")
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, resp.OrderID, "paid"))
	assert.Equal(t, model.StatusPaid, findOrder(t, db, resp.OrderID).Status)

	// The escape hatch ignores the state machine: paid back to awaiting is
	// allowed for manual correction.
	require.NoError(t, svc.SetStatus(ctx, resp.OrderID, "awaiting_payment"))
	assert.Equal(t, model.StatusAwaitingPayment, findOrder(t, db, resp.OrderID).Status)

	err := svc.SetStatus(ctx, resp.OrderID, "cancelled")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.SetStatus(ctx, "FIT-20240101-abc123", "paid")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()

	first := createTestOrder(t, svc, "bank_transfer")
	second := createTestOrder(t, svc, "crypto")
	require.NoError(t, svc.SetStatus(ctx, second.OrderID, "paid"))

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	paid, err := svc.List(ctx, "paid", "")
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, second.OrderID, paid[0].OrderID)

	byID, err := svc.List(ctx, "", first.OrderID)
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, first.OrderID, byID[0].OrderID)

	_, err = svc.List(ctx, "bogus", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPaymentNotificationApprovedMarksPaid(t *testing.T) {
	svc, gateway, db := newOrderFixture(t)
	resp := createTestOrder(t, svc, "mercadopago")
	ctx := context.Background()

	gateway.payments["777"] = &model.MPPayment{
		ID: 777, Status: "approved", ExternalReference: resp.OrderID,
	}

	require.NoError(t, svc.HandlePaymentNotification(ctx, "payment", "777"))

	order := findOrder(t, db, resp.OrderID)
	assert.Equal(t, model.StatusPaid, order.Status)
	assert.Equal(t, "777", order.GatewayPaymentID)
}

func TestPaymentNotificationIsIdempotent(t *testing.T) {
	svc, gateway, db := newOrderFixture(t)
	resp := createTestOrder(t, svc, "mercadopago")
	ctx := context.Background()

	gateway.payments["777"] = &model.MPPayment{
		ID: 777, Status: "approved", ExternalReference: resp.OrderID,
	}

	require.NoError(t, svc.HandlePaymentNotification(ctx, "payment", "777"))
	require.NoError(t, svc.HandlePaymentNotification(ctx, "payment", "777"))

	assert.Equal(t, model.StatusPaid, findOrder(t, db, resp.OrderID).Status)

	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}

func TestPaymentNotificationIgnoresNonApproved(t *testing.T) {
	svc, gateway, db := newOrderFixture(t)
	resp := createTestOrder(t, svc, "mercadopago")
	ctx := context.Background()

	gateway.payments["888"] = &model.MPPayment{
		ID: 888, Status: "rejected", ExternalReference: resp.OrderID,
	}

	// Only approved is auto-applied; failures go through review or the admin.
	require.NoError(t, svc.HandlePaymentNotification(ctx, "payment", "888"))
	assert.Equal(t, model.StatusAwaitingPayment, findOrder(t, db, resp.OrderID).Status)
}

func TestPaymentNotificationUnknownReferenceIsAcknowledged(t *testing.T) {
	svc, gateway, _ := newOrderFixture(t)
	ctx := context.Background()

	gateway.payments["999"] = &model.MPPayment{
		ID: 999, Status: "approved", ExternalReference: "FIT-20240101-zzzzzz",
	}

	assert.NoError(t, svc.HandlePaymentNotification(ctx, "payment", "999"))
}

func TestPaymentNotificationLookupFailureMutatesNothing(t *testing.T) {
	svc, gateway, db := newOrderFixture(t)
	resp := createTestOrder(t, svc, "mercadopago")
	ctx := context.Background()

	gateway.lookupErr = errors.New("gateway timeout")

	err := svc.HandlePaymentNotification(ctx, "payment", "777")
	assert.Error(t, err)
	assert.Equal(t, model.StatusAwaitingPayment, findOrder(t, db, resp.OrderID).Status)
}

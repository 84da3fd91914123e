package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanCadence string

const (
	CadenceWeekly  PlanCadence = "weekly"
	CadenceMonthly PlanCadence = "monthly"
)

type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusUnderReview     OrderStatus = "under_review"
	StatusPaid            OrderStatus = "paid"
	StatusRejected        OrderStatus = "rejected"
)

// IsTerminal reports whether the normal workflow permits no further
// transition out of s. Admin overrides bypass this on purpose.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusAwaitingPayment, StatusUnderReview, StatusPaid, StatusRejected:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodMercadoPago   PaymentMethod = "mercadopago"
	MethodBankTransfer  PaymentMethod = "bank_transfer"
	MethodInternational PaymentMethod = "international"
	MethodCrypto        PaymentMethod = "crypto"
	MethodManualAdmin   PaymentMethod = "manual_admin"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodMercadoPago, MethodBankTransfer, MethodInternational, MethodCrypto, MethodManualAdmin:
		return true
	}
	return false
}

type Plan struct {
	Code      string          `gorm:"primaryKey;size:64;not null"`
	Name      string          `gorm:"size:128;not null"`
	Cadence   PlanCadence     `gorm:"size:16;not null"`
	Days      int             `gorm:"not null"` // weekly training frequency
	PriceARS  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active    bool            `gorm:"index;not null"`
	Benefits  string          `gorm:"type:text"` // JSON-encoded list of bullet points
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID                 uint            `gorm:"primaryKey"`
	OrderID            string          `gorm:"size:64;uniqueIndex;not null"` // external reference, immutable
	PlanCode           string          `gorm:"size:64;index;not null"`
	CustomerName       string          `gorm:"size:128;not null"`
	CustomerEmail      string          `gorm:"size:255;index;not null"`
	CustomerRef        string          `gorm:"size:128"` // free text, e.g. instagram handle
	PaymentMethod      PaymentMethod   `gorm:"size:32;not null"`
	AmountARS          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExtraVideo         bool            `gorm:"not null"`
	ExtraVideoPriceARS decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status             OrderStatus     `gorm:"size:32;index;not null"`
	GatewayPaymentID   string          `gorm:"size:64;index"` // gateway payment id, for reconciliation
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Receipt struct {
	ID            uint   `gorm:"primaryKey"`
	OrderRef      uint   `gorm:"index;not null"` // FK → orders.id
	FilePath      string `gorm:"size:512;not null"` // opaque storage key, never a raw URL
	FileMime      string `gorm:"size:64;not null"`
	FileSize      int64  `gorm:"not null"`
	OriginalName  string `gorm:"size:255"`
	ReferenceText string `gorm:"size:512"`
	CreatedAt     time.Time
}

// WebhookEvent records processed gateway notifications so redelivery can be
// detected. The gateway delivers at least once.
type WebhookEvent struct {
	PaymentID   string `gorm:"primaryKey;size:64;not null"`
	Topic       string `gorm:"size:32;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

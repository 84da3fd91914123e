package dto

import "time"

type CreateOrderRequest struct {
	PlanCode      string `json:"plan_code"`
	PaymentMethod string `json:"payment_method"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	CustomerRef   string `json:"customer_ref"`
	ExtraVideo    bool   `json:"extra_video"`
}

type CreateOrderResponse struct {
	OK         bool   `json:"ok"`
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url,omitempty"`
}

type OrderResponse struct {
	OrderID       string    `json:"order_id"`
	PlanCode      string    `json:"plan_code"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerRef   string    `json:"customer_ref,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	AmountARS     string    `json:"amount_ars"`
	ExtraVideo    bool      `json:"extra_video"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PlanResponse struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Cadence  string   `json:"cadence"`
	Days     int      `json:"days"`
	PriceARS string   `json:"price_ars"`
	Benefits []string `json:"benefits"`
}

type CatalogResponse struct {
	Plans              []*PlanResponse `json:"plans"`
	ExtraVideoPriceARS string          `json:"extra_video_price_ars"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type ReceiptResponse struct {
	ID            uint      `json:"id"`
	OriginalName  string    `json:"original_name"`
	FileMime      string    `json:"file_mime"`
	FileSize      int64     `json:"file_size"`
	ReferenceText string    `json:"reference_text,omitempty"`
	SignedURL     string    `json:"signed_url"`
	CreatedAt     time.Time `json:"created_at"`
}

package model

// Wire payloads for the Mercado Pago checkout API.

type MPItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency_id"`
}

type MPBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type MPPreferenceRequest struct {
	Items             []MPItem   `json:"items"`
	ExternalReference string     `json:"external_reference"`
	BackURLs          MPBackURLs `json:"back_urls"`
	AutoReturn        string     `json:"auto_return,omitempty"`
}

type MPPreferenceResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type MPPayment struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"` // approved, pending, rejected, ...
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"coaching-checkout/internal/config"
	"coaching-checkout/internal/model"
)

type MercadoPagoClient interface {
	CreatePreference(ctx context.Context, externalRef, itemTitle string, amountARS float64, baseURL string) (*CreatePreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error)
}

type mercadoPagoClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	accessToken string
}

type CreatePreferenceResponse struct {
	PreferenceID string
	InitPoint    string
}

func NewMercadoPagoClient(mpCfg *config.MercadoPago) MercadoPagoClient {
	return &mercadoPagoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  mpCfg.BaseApiURL,
		accessToken: mpCfg.AccessToken,
	}
}

func (c *mercadoPagoClientImpl) CreatePreference(ctx context.Context, externalRef, itemTitle string, amountARS float64, baseURL string) (*CreatePreferenceResponse, error) {
	payload := &model.MPPreferenceRequest{
		Items: []model.MPItem{
			{
				Title:     itemTitle,
				Quantity:  1,
				UnitPrice: amountARS,
				Currency:  "ARS",
			},
		},
		ExternalReference: externalRef,
		BackURLs: model.MPBackURLs{
			Success: fmt.Sprintf("%s/gracias", baseURL),
			Pending: fmt.Sprintf("%s/gracias", baseURL),
			Failure: fmt.Sprintf("%s/checkout", baseURL),
		},
		AutoReturn: "approved",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/checkout/preferences",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(b))
	}

	var result model.MPPreferenceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode preference response: %w", err)
	}

	return &CreatePreferenceResponse{
		PreferenceID: result.ID,
		InitPoint:    result.InitPoint,
	}, nil
}

// GetPayment resolves the opaque payment id carried by a webhook into the
// payment's current status and external reference.
func (c *mercadoPagoClientImpl) GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseApiURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mercadopago payment lookup %d: %s", resp.StatusCode, string(b))
	}

	var payment model.MPPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	return &payment, nil
}

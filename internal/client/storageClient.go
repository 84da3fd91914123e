package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"coaching-checkout/internal/config"
)

// StorageClient talks to the hosted object-storage bucket holding receipt
// files. Keys are opaque; private content is only ever exposed through
// signed, time-limited URLs.
type StorageClient interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

type storageClientImpl struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	bucket     string
}

func NewStorageClient(storageCfg *config.Storage) StorageClient {
	return &storageClientImpl{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:    storageCfg.BaseURL,
		serviceKey: storageCfg.ServiceKey,
		bucket:     storageCfg.Bucket,
	}
}

func (c *storageClientImpl) objectURL(key string) string {
	return fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, url.PathEscape(key))
}

func (c *storageClientImpl) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(key), body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage upload %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

func (c *storageClientImpl) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage delete %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

func (c *storageClientImpl) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	payload := map[string]int64{
		"expiresIn": int64(expiresIn.Seconds()),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal sign payload: %w", err)
	}

	signURL := fmt.Sprintf("%s/object/sign/%s/%s", c.baseURL, c.bucket, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage sign: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage sign %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}

	return c.baseURL + result.SignedURL, nil
}

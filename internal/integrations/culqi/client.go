package culqi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// Gateway creates payment orders with the provider. Implementations must
// be safe for concurrent use.
type Gateway interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
}

type OrderRequest struct {
	Amount         int64             `json:"amount"`
	CurrencyCode   string            `json:"currency_code"`
	Description    string            `json:"description"`
	OrderNumber    string            `json:"order_number"`
	ClientDetails  ClientDetails     `json:"client_details"`
	ExpirationDate int64             `json:"expiration_date"`
	Confirm        bool              `json:"confirm"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type ClientDetails struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type Order struct {
	ID             string `json:"id"`
	OrderNumber    string `json:"order_number"`
	Amount         int64  `json:"amount"`
	CurrencyCode   string `json:"currency_code"`
	State          string `json:"state"`
	ExpirationDate int64  `json:"expiration_date"`
}

type apiError struct {
	Object          string `json:"object"`
	Type            string `json:"type"`
	MerchantMessage string `json:"merchant_message"`
	UserMessage     string `json:"user_message"`
}

type client struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg utils.PaymentConfig, log *zap.Logger) Gateway {
	// Without a real key the server runs against the mock gateway, so
	// local and CI environments never reach the provider.
	if cfg.CulqiPrivateKey == "" || cfg.CulqiPrivateKey == "testing-culqi-key" {
		log.Warn("Culqi private key not configured, using mock gateway")
		return NewMockGateway()
	}

	return &client{
		baseURL:    cfg.CulqiBaseURL,
		privateKey: cfg.CulqiPrivateKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.With(zap.String("integration", "culqi")),
	}
}

func (c *client) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.privateKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("Culqi order request failed", zap.Error(err))
		return nil, fmt.Errorf("create culqi order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read culqi response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.MerchantMessage != "" {
			c.log.Error("Culqi rejected order",
				zap.Int("status", resp.StatusCode),
				zap.String("merchant_message", apiErr.MerchantMessage),
			)
			return nil, fmt.Errorf("culqi order rejected: %s", apiErr.MerchantMessage)
		}
		c.log.Error("Culqi rejected order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return nil, fmt.Errorf("culqi order rejected with status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decode culqi order: %w", err)
	}

	return &order, nil
}

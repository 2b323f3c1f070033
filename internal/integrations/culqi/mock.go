package culqi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// mockGateway issues orders locally so the reservation flow works without
// provider credentials. Order IDs carry a mock prefix so they are easy to
// spot in logs and audit metadata.
type mockGateway struct{}

func NewMockGateway() Gateway {
	return &mockGateway{}
}

func (m *mockGateway) CreateOrder(_ context.Context, req *OrderRequest) (*Order, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate mock order id: %w", err)
	}

	return &Order{
		ID:             "ord_mock_" + hex.EncodeToString(buf),
		OrderNumber:    req.OrderNumber,
		Amount:         req.Amount,
		CurrencyCode:   req.CurrencyCode,
		State:          "pending",
		ExpirationDate: time.Now().Add(time.Hour).Unix(),
	}, nil
}

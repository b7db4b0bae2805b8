package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flayve23/flayve-oficial/pkg/httpclient"
)

const (
	PaymentsEndpoint  = "/v1/payments"
	TransfersEndpoint = "/v1/transfers"
)

// Gateway is the external payment provider the wallet settles against.
// CreatePayment opens a deposit intent, GetPayment re-fetches the authoritative
// payment state (webhook bodies are never trusted), Transfer pays a withdrawal
// out to the streamer.
type Gateway interface {
	CreatePayment(ctx context.Context, request CreatePaymentRequest) (Payment, error)
	GetPayment(ctx context.Context, paymentID string) (Payment, error)
	Transfer(ctx context.Context, request TransferRequest) (Transfer, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) CreatePayment(ctx context.Context, request CreatePaymentRequest) (Payment, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Payment{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"Authorization":     "Bearer " + g.config.AccessToken,
		"X-Idempotency-Key": request.IdempotencyKey,
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+PaymentsEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Payment{}, ErrTimeout
		}

		return Payment{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK || resp.StatusCode == StatusCreated {
		var payment Payment
		if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
			return Payment{}, fmt.Errorf("decoding error: %w", err)
		}

		return payment, nil
	}

	return Payment{}, MapStatusToError(resp.StatusCode)
}

func (g *gateway) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + g.config.AccessToken,
	}

	resp, err := g.client.Get(ctx, g.config.BaseURL+PaymentsEndpoint+"/"+paymentID, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Payment{}, ErrTimeout
		}

		return Payment{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK {
		var payment Payment
		if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
			return Payment{}, fmt.Errorf("decoding error: %w", err)
		}

		return payment, nil
	}

	return Payment{}, MapStatusToError(resp.StatusCode)
}

func (g *gateway) Transfer(ctx context.Context, request TransferRequest) (Transfer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Transfer{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"Authorization":     "Bearer " + g.config.AccessToken,
		"X-Idempotency-Key": request.IdempotencyKey,
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+TransfersEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Transfer{}, ErrTimeout
		}

		return Transfer{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode == StatusOK || resp.StatusCode == StatusCreated {
		var transfer Transfer
		if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
			return Transfer{}, fmt.Errorf("decoding error: %w", err)
		}

		return transfer, nil
	}

	return Transfer{}, MapStatusToError(resp.StatusCode)
}

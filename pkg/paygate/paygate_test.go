package paygate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/flayve23/flayve-oficial/pkg/mocks"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func matchPaymentBody(request paygate.CreatePaymentRequest) interface{} {
	return mock.MatchedBy(func(body interface{}) bool {
		buf, ok := body.(*bytes.Buffer)
		if !ok {
			return false
		}

		var req paygate.CreatePaymentRequest
		if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
			return false
		}

		return req.Amount.Equal(request.Amount) && req.PayerEmail == request.PayerEmail
	})
}

func matchTransferBody(request paygate.TransferRequest) interface{} {
	return mock.MatchedBy(func(body interface{}) bool {
		buf, ok := body.(*bytes.Buffer)
		if !ok {
			return false
		}

		var req paygate.TransferRequest
		if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&req); err != nil {
			return false
		}

		return req.Amount.Equal(request.Amount) && req.ReceiverKey == request.ReceiverKey
	})
}

func TestGateway_CreatePayment(t *testing.T) {
	cfg := paygate.Config{
		BaseURL:     "https://api.paygate.test",
		AccessToken: "token-123",
		Timeout:     10 * time.Second,
	}

	paymentsURL := cfg.BaseURL + paygate.PaymentsEndpoint
	headers := map[string]string{
		"Content-Type":      "application/json",
		"Authorization":     "Bearer token-123",
		"X-Idempotency-Key": "dep-abc-123",
	}

	request := paygate.CreatePaymentRequest{
		Amount:          decimal.RequireFromString("50.00"),
		Description:     "wallet deposit",
		PaymentMethodID: "pix",
		PayerEmail:      "viewer@example.com",
		IdempotencyKey:  "dep-abc-123",
	}

	t.Run("successful payment creation", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		body := `{
			"id": "pay_789",
			"status": "pending",
			"transaction_amount": "50.00",
			"qr_code": "000201010212"
		}`

		createdResponse := &http.Response{
			StatusCode: 201,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), paymentsURL, matchPaymentBody(request),
			headers).Return(createdResponse, nil)

		payment, err := gw.CreatePayment(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "pay_789", payment.ID)
		assert.Equal(t, paygate.PaymentStatusPending, payment.Status)
		assert.True(t, payment.Amount.Equal(decimal.RequireFromString("50.00")))
		mockClient.AssertExpectations(t)
	})

	t.Run("timeout error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		mockClient.On("Post", context.Background(), paymentsURL, matchPaymentBody(request),
			headers).Return((*http.Response)(nil), context.DeadlineExceeded)

		payment, err := gw.CreatePayment(context.Background(), request)

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrTimeout, err)
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})

	t.Run("network error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		networkErr := errors.New("network connection failed")
		resp := &http.Response{}

		mockClient.On("Post", context.Background(), paymentsURL, matchPaymentBody(request),
			headers).Return(resp, networkErr)

		payment, err := gw.CreatePayment(context.Background(), request)

		assert.Error(t, err)
		assert.Equal(t, networkErr, err)
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		invalidJSON := `{"id": "pay_789", "status":`
		createdResponse := &http.Response{
			StatusCode: 201,
			Body:       io.NopCloser(strings.NewReader(invalidJSON)),
		}

		mockClient.On("Post", context.Background(), paymentsURL, matchPaymentBody(request),
			headers).Return(createdResponse, nil)

		payment, err := gw.CreatePayment(context.Background(), request)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decoding error")
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		resp := &http.Response{
			StatusCode: 422,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
		}

		mockClient.On("Post", context.Background(), paymentsURL, matchPaymentBody(request),
			headers).Return(resp, nil)

		payment, err := gw.CreatePayment(context.Background(), request)

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrValidationFailed, err)
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})
}

func TestGateway_GetPayment(t *testing.T) {
	cfg := paygate.Config{
		BaseURL:     "https://api.paygate.test",
		AccessToken: "token-123",
		Timeout:     10 * time.Second,
	}

	paymentURL := cfg.BaseURL + paygate.PaymentsEndpoint + "/pay_789"
	headers := map[string]string{"Authorization": "Bearer token-123"}

	t.Run("successful fetch", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		body := `{"id": "pay_789", "status": "approved", "transaction_amount": "50.00"}`
		okResponse := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Get", context.Background(), paymentURL, headers).Return(okResponse, nil)

		payment, err := gw.GetPayment(context.Background(), "pay_789")

		assert.NoError(t, err)
		assert.Equal(t, paygate.PaymentStatusApproved, payment.Status)
		mockClient.AssertExpectations(t)
	})

	t.Run("payment not found", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		resp := &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
		}

		mockClient.On("Get", context.Background(), paymentURL, headers).Return(resp, nil)

		payment, err := gw.GetPayment(context.Background(), "pay_789")

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrPaymentNotFound, err)
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})

	t.Run("timeout error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		mockClient.On("Get", context.Background(), paymentURL,
			headers).Return((*http.Response)(nil), context.DeadlineExceeded)

		payment, err := gw.GetPayment(context.Background(), "pay_789")

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrTimeout, err)
		assert.Empty(t, payment)
		mockClient.AssertExpectations(t)
	})
}

func TestGateway_Transfer(t *testing.T) {
	cfg := paygate.Config{
		BaseURL:     "https://api.paygate.test",
		AccessToken: "token-123",
		Timeout:     10 * time.Second,
	}

	transfersURL := cfg.BaseURL + paygate.TransfersEndpoint
	headers := map[string]string{
		"Content-Type":      "application/json",
		"Authorization":     "Bearer token-123",
		"X-Idempotency-Key": "payout-42",
	}

	request := paygate.TransferRequest{
		Amount:         decimal.RequireFromString("80.00"),
		ReceiverKey:    "streamer@example.com",
		Description:    "withdrawal 42",
		IdempotencyKey: "payout-42",
	}

	t.Run("successful transfer", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		body := `{"id": "tr_555", "status": "approved", "amount": "80.00"}`
		okResponse := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Post", context.Background(), transfersURL, matchTransferBody(request),
			headers).Return(okResponse, nil)

		transfer, err := gw.Transfer(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, "tr_555", transfer.ID)
		assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("80.00")))
		mockClient.AssertExpectations(t)
	})

	t.Run("timeout error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		mockClient.On("Post", context.Background(), transfersURL, matchTransferBody(request),
			headers).Return((*http.Response)(nil), context.DeadlineExceeded)

		transfer, err := gw.Transfer(context.Background(), request)

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrTimeout, err)
		assert.Empty(t, transfer)
		mockClient.AssertExpectations(t)
	})

	t.Run("server error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		gw := paygate.NewGateway(cfg, mockClient)

		resp := &http.Response{
			StatusCode: 500,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
		}

		mockClient.On("Post", context.Background(), transfersURL, matchTransferBody(request),
			headers).Return(resp, nil)

		transfer, err := gw.Transfer(context.Background(), request)

		assert.Error(t, err)
		assert.Equal(t, paygate.ErrServerError, err)
		assert.Empty(t, transfer)
		mockClient.AssertExpectations(t)
	})
}

package paygate

import "github.com/shopspring/decimal"

type CreatePaymentRequest struct {
	Amount          decimal.Decimal `json:"transaction_amount"`
	Description     string          `json:"description"`
	PaymentMethodID string          `json:"payment_method_id"`
	PayerEmail      string          `json:"payer_email"`
	NotificationURL string          `json:"notification_url"`
	IdempotencyKey  string          `json:"-"`
}

type TransferRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ReceiverKey    string          `json:"receiver_key"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"-"`
}

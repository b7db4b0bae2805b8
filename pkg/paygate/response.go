package paygate

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusApproved  = "approved"
	PaymentStatusRejected  = "rejected"
	PaymentStatusCancelled = "cancelled"
)

type Payment struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"transaction_amount"`
	QRCode      string          `json:"qr_code,omitempty"`
	TicketURL   string          `json:"ticket_url,omitempty"`
	DateCreated time.Time       `json:"date_created"`
}

type Transfer struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	DateCreated time.Time       `json:"date_created"`
}

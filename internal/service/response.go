package service

import (
	"time"

	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/shopspring/decimal"
)

type RequestCallResponse struct {
	CallID int64  `json:"call_id"`
	Status string `json:"status"`
}

type IncomingCallResponse struct {
	Active     bool   `json:"active"`
	CallID     int64  `json:"call_id,omitempty"`
	ViewerID   int64  `json:"viewer_id,omitempty"`
	ViewerName string `json:"viewer_name,omitempty"`
}

type AnswerCallResponse struct {
	CallID int64  `json:"call_id"`
	Status string `json:"status"`

	Credential *videotoken.JoinCredential `json:"credential,omitempty"`
}

type CallStatusResponse struct {
	CallID int64  `json:"call_id"`
	Status string `json:"status"`

	Credential *videotoken.JoinCredential `json:"credential,omitempty"`
}

type EndCallResponse struct {
	CallID          int64           `json:"call_id"`
	Charged         decimal.Decimal `json:"charged"`
	DurationSeconds int64           `json:"duration_seconds"`
	DurationMinutes int64           `json:"duration_minutes"`
	StreamerEarned  decimal.Decimal `json:"streamer_earned"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
}

type CheckBalanceResponse struct {
	Balance          decimal.Decimal `json:"balance"`
	PricePerMinute   decimal.Decimal `json:"price_per_minute"`
	EstimatedMinutes int64           `json:"estimated_minutes"`
	CanCall          bool            `json:"can_call"`
}

type DepositResponse struct {
	TransactionID int64  `json:"transaction_id"`
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	QRCode        string `json:"qr_code,omitempty"`
	TicketURL     string `json:"ticket_url,omitempty"`
}

type TipResponse struct {
	NewBalance decimal.Decimal `json:"new_balance"`
}

type WithdrawResponse struct {
	TransactionID int64 `json:"transaction_id"`
}

type Transaction struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProfileResponse struct {
	UserID         int64           `json:"user_id"`
	Username       string          `json:"username"`
	BioName        string          `json:"bio_name"`
	BioDescription string          `json:"bio_description"`
	PhotoURL       *string         `json:"photo_url,omitempty"`
	PricePerMinute decimal.Decimal `json:"price_per_minute"`
	IsOnline       bool            `json:"is_online"`
	IsPublic       bool            `json:"is_public"`
}

type EarningsResponse struct {
	AvailableBalance      decimal.Decimal `json:"available_balance"`
	TotalLifetimeEarnings decimal.Decimal `json:"total_lifetime_earnings"`
	Ledger                []Transaction   `json:"ledger"`
	Withdrawals           []Transaction   `json:"withdrawals"`
}

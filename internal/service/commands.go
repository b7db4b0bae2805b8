package service

import (
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
)

type RequestCallCommand struct {
	ViewerID   int64
	StreamerID int64
}

type AnswerCallCommand struct {
	StreamerID   int64
	StreamerName string
	CallID       int64
	Accept       bool
}

type PollStatusCommand struct {
	ViewerID   int64
	ViewerName string
	CallID     int64
}

type EndCallCommand struct {
	CallerID        int64
	CallID          int64
	DurationSeconds int64
}

type DepositCommand struct {
	UserID int64
	Amount decimal.Decimal
	Method string
}

type TipCommand struct {
	ViewerID   int64
	StreamerID int64
	Amount     decimal.Decimal
	GiftName   string
}

type WithdrawCommand struct {
	StreamerID int64
	Amount     decimal.Decimal
	PixKey     string
}

type ReviewWithdrawalCommand struct {
	AdminID       int64
	TransactionID int64
	Approve       bool
	Notes         string
}

type ListTransactionsQuery struct {
	UserID int64
	Limit  int
	Offset int
}

type GatewayNotificationCommand struct {
	Action    string `json:"action"`
	PaymentID string `json:"payment_id"`
}

type ProcessPayoutCommand struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Amount        string `json:"amount"`
	PixKey        string `json:"pix_key"`
}

type UpdateProfileCommand struct {
	UserID         int64
	BioName        string
	BioDescription string
	PhotoURL       *string
	PricePerMinute decimal.Decimal
	IsPublic       bool
}

type UpdateRoleCommand struct {
	AdminID int64
	UserID  int64
	NewRole model.Role
}

type UpdateCommissionCommand struct {
	AdminID int64
	UserID  int64
	Rate    *decimal.Decimal
}

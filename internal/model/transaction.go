package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeDeposit     TxType = "deposit"
	TxTypeWithdrawal  TxType = "withdrawal"
	TxTypeCallPayment TxType = "call_payment"
	TxTypeCallEarning TxType = "call_earning"
	TxTypeTip         TxType = "tip"
	TxTypeReferral    TxType = "referral"
	TxTypePlatformFee TxType = "platform_fee"
	TxTypeRefund      TxType = "refund"
	TxTypeChargeback  TxType = "chargeback"
	TxTypePenalty     TxType = "penalty"
)

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
)

// txSigns is the single source of truth for balance semantics: +1 credits the
// user, -1 debits. Every balance query must be derived from this table, never
// from an ad hoc type list.
var txSigns = map[TxType]int{
	TxTypeDeposit:     +1,
	TxTypeCallEarning: +1,
	TxTypeTip:         +1,
	TxTypeReferral:    +1,
	TxTypeRefund:      +1,
	TxTypeWithdrawal:  -1,
	TxTypeCallPayment: -1,
	TxTypePlatformFee: -1,
	TxTypePenalty:     -1,
	TxTypeChargeback:  -1,
}

// Sign returns +1 for credit types, -1 for debit types and 0 for unknown ones.
func (t TxType) Sign() int {
	return txSigns[t]
}

func (t TxType) Valid() bool {
	_, ok := txSigns[t]
	return ok
}

// CreditTypes returns the transaction types that increase a balance.
func CreditTypes() []TxType {
	return typesWithSign(+1)
}

// DebitTypes returns the transaction types that decrease a balance.
func DebitTypes() []TxType {
	return typesWithSign(-1)
}

// EarningTypes returns the credit types that count toward a streamer's
// lifetime earnings. Deposits and refunds credit the balance but are the
// user's own money coming back, not income.
func EarningTypes() []TxType {
	return []TxType{TxTypeCallEarning, TxTypeTip, TxTypeReferral}
}

func typesWithSign(sign int) []TxType {
	out := make([]TxType, 0, len(txSigns))
	for t, s := range txSigns {
		if s == sign {
			out = append(out, t)
		}
	}
	return out
}

// Transaction is one append-only ledger posting. Amount and Type are immutable
// after insert; Status may transition once (pending -> completed|failed) via a
// conditional update. Published/PublishedAt are claim markers for the payout
// publisher and are only meaningful for withdrawal postings.
type Transaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement;<-:create"`
	UserID      int64           `gorm:"column:user_id;not null;index:idx_user_status"`
	Type        TxType          `gorm:"column:type;type:varchar(20);not null;<-:create"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null;<-:create"`
	Status      TxStatus        `gorm:"column:status;type:enum('pending','completed','failed');not null;default:'pending';index:idx_user_status"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:json"`
	Published   bool            `gorm:"column:published;not null;default:false"`
	PublishedAt *time.Time      `gorm:"column:published_at;type:timestamp;null"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}

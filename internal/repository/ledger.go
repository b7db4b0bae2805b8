package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")

type LedgerRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(id int64) (*model.Transaction, error)
	// SumCompletedByUser derives the balance from completed postings using the
	// sign table in model. forUpdate locks the user's posting range so a
	// check-then-debit sequence is serialized per user.
	SumCompletedByUser(ctx context.Context, userID int64, forUpdate bool) (decimal.Decimal, error)
	ListByUser(userID int64, limit, offset int) ([]model.Transaction, error)
	ListByUserAndType(userID int64, txType model.TxType, limit, offset int) ([]model.Transaction, error)
	// SumCompletedEarningsByUser totals the credit types that count as income
	// (model.EarningTypes). Deposits and refunds are excluded.
	SumCompletedEarningsByUser(userID int64) (decimal.Decimal, error)
	// SettleByExternalRef flips the unique pending deposit carrying the
	// external payment reference. ErrNoRowsAffected means there is nothing
	// pending for that reference (already settled or unknown).
	SettleByExternalRef(ctx context.Context, externalRef string, to model.TxStatus) error
	GetByExternalRef(externalRef string) (*model.Transaction, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to model.TxStatus) error
	FindPendingByType(txType model.TxType, limit int) ([]model.Transaction, error)
	FindUnpublishedPayouts(limit int) ([]model.Transaction, error)
	MarkPayoutPublished(ctx context.Context, id int64) error
}

type Ledger struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &Ledger{db: db}
}

func (l *Ledger) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, l.db)
	return db.Create(tx).Error
}

func (l *Ledger) GetByID(id int64) (*model.Transaction, error) {
	var tx model.Transaction

	err := l.db.Where("id = ?", id).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

// signedAmountSQL renders the sign table as a SQL CASE expression. The type
// lists come from model so no query re-derives credit/debit semantics.
func signedAmountSQL() string {
	credits := model.CreditTypes()
	quoted := make([]string, 0, len(credits))
	for _, t := range credits {
		quoted = append(quoted, "'"+string(t)+"'")
	}

	return fmt.Sprintf("CASE WHEN type IN (%s) THEN amount ELSE -amount END", strings.Join(quoted, ", "))
}

func (l *Ledger) SumCompletedByUser(ctx context.Context, userID int64, forUpdate bool) (decimal.Decimal, error) {
	db := GetTx(ctx, l.db)

	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(%s), 0) AS balance FROM transactions WHERE user_id = ? AND status = ?",
		signedAmountSQL())
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row struct {
		Balance decimal.Decimal
	}

	if err := db.Raw(query, userID, model.TxStatusCompleted).Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}

	return row.Balance, nil
}

func (l *Ledger) ListByUser(userID int64, limit, offset int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (l *Ledger) ListByUserAndType(userID int64, txType model.TxType, limit, offset int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := l.db.Where("user_id = ? AND type = ?", userID, txType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (l *Ledger) SumCompletedEarningsByUser(userID int64) (decimal.Decimal, error) {
	earnings := model.EarningTypes()
	types := make([]string, 0, len(earnings))
	for _, t := range earnings {
		types = append(types, string(t))
	}

	var row struct {
		Total decimal.Decimal
	}

	err := l.db.Raw(
		"SELECT COALESCE(SUM(amount), 0) AS total FROM transactions WHERE user_id = ? AND status = ? AND type IN ?",
		userID, model.TxStatusCompleted, types).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}

	return row.Total, nil
}

func (l *Ledger) SettleByExternalRef(ctx context.Context, externalRef string, to model.TxStatus) error {
	db := GetTx(ctx, l.db)

	result := db.Model(&model.Transaction{}).
		Where("type = ? AND status = ? AND JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.payment_id')) = ?",
			model.TxTypeDeposit, model.TxStatusPending, externalRef).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (l *Ledger) GetByExternalRef(externalRef string) (*model.Transaction, error) {
	var tx model.Transaction

	err := l.db.
		Where("type = ? AND JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.payment_id')) = ?",
			model.TxTypeDeposit, externalRef).
		First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (l *Ledger) UpdateStatusFrom(ctx context.Context, id int64, from, to model.TxStatus) error {
	db := GetTx(ctx, l.db)

	result := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (l *Ledger) FindPendingByType(txType model.TxType, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := l.db.Where("type = ? AND status = ?", txType, model.TxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (l *Ledger) FindUnpublishedPayouts(limit int) ([]model.Transaction, error) {
	var txs []model.Transaction

	err := l.db.Where("type = ? AND status = ? AND published = ?",
		model.TxTypeWithdrawal, model.TxStatusCompleted, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (l *Ledger) MarkPayoutPublished(ctx context.Context, id int64) error {
	db := GetTx(ctx, l.db)

	publishedAt := time.Now()
	result := db.Model(&model.Transaction{}).
		Where("id = ? AND published = ?", id, false).
		Updates(map[string]interface{}{"published": true, "published_at": &publishedAt})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

package repository

import (
	"context"
	"testing"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.Exec(`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		metadata TEXT,
		published BOOLEAN NOT NULL DEFAULT 0,
		published_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	return db
}

func seedTx(t *testing.T, repo LedgerRepository, userID int64, txType model.TxType, amount string, status model.TxStatus) {
	err := repo.Create(context.Background(), &model.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: decimal.RequireFromString(amount),
		Status: status,
	})
	if err != nil {
		t.Fatalf("Failed to seed transaction: %v", err)
	}
}

func TestLedgerRepository_SumCompletedEarningsByUser(t *testing.T) {
	repo := NewLedgerRepository(setupLedgerDB(t))

	// Income postings.
	seedTx(t, repo, 20, model.TxTypeCallEarning, "100.00", model.TxStatusCompleted)
	seedTx(t, repo, 20, model.TxTypeTip, "25.00", model.TxStatusCompleted)
	seedTx(t, repo, 20, model.TxTypeReferral, "5.00", model.TxStatusCompleted)

	// Credits that are not income.
	seedTx(t, repo, 20, model.TxTypeDeposit, "500.00", model.TxStatusCompleted)
	seedTx(t, repo, 20, model.TxTypeRefund, "40.00", model.TxStatusCompleted)

	// Pending income and other users stay out of the total.
	seedTx(t, repo, 20, model.TxTypeTip, "9.00", model.TxStatusPending)
	seedTx(t, repo, 21, model.TxTypeCallEarning, "999.00", model.TxStatusCompleted)

	total, err := repo.SumCompletedEarningsByUser(20)

	assert.NoError(t, err)
	assert.Equal(t, "130.00", total.StringFixed(2))
}

package mocks

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type LedgerRepository struct {
	mock.Mock
}

func (l *LedgerRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := l.Called(ctx, tx)
	return args.Error(0)
}

func (l *LedgerRepository) GetByID(id int64) (*model.Transaction, error) {
	args := l.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (l *LedgerRepository) SumCompletedByUser(ctx context.Context, userID int64, forUpdate bool) (decimal.Decimal, error) {
	args := l.Called(ctx, userID, forUpdate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (l *LedgerRepository) ListByUser(userID int64, limit, offset int) ([]model.Transaction, error) {
	args := l.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (l *LedgerRepository) ListByUserAndType(userID int64, txType model.TxType, limit, offset int) ([]model.Transaction, error) {
	args := l.Called(userID, txType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (l *LedgerRepository) SumCompletedEarningsByUser(userID int64) (decimal.Decimal, error) {
	args := l.Called(userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (l *LedgerRepository) SettleByExternalRef(ctx context.Context, externalRef string, to model.TxStatus) error {
	args := l.Called(ctx, externalRef, to)
	return args.Error(0)
}

func (l *LedgerRepository) GetByExternalRef(externalRef string) (*model.Transaction, error) {
	args := l.Called(externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (l *LedgerRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to model.TxStatus) error {
	args := l.Called(ctx, id, from, to)
	return args.Error(0)
}

func (l *LedgerRepository) FindPendingByType(txType model.TxType, limit int) ([]model.Transaction, error) {
	args := l.Called(txType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (l *LedgerRepository) FindUnpublishedPayouts(limit int) ([]model.Transaction, error) {
	args := l.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (l *LedgerRepository) MarkPayoutPublished(ctx context.Context, id int64) error {
	args := l.Called(ctx, id)
	return args.Error(0)
}

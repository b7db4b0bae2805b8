package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/pkg/mq"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayoutService feeds approved withdrawals to the payment gateway. The
// publisher side claims completed withdrawals that were never queued and the
// consumer side executes the transfer. The transfer carries a deterministic
// idempotency key, so a redelivered message cannot pay twice.
type PayoutService interface {
	FindPayoutsToQueue(limit int) ([]model.Transaction, error)
	MarkPayoutAsQueued(ctx context.Context, transactionID int64) error
	ProcessPayout(ctx context.Context, cmd ProcessPayoutCommand) error
}

type payout struct {
	logger  *zap.Logger
	ledgers repository.LedgerRepository
	gateway paygate.Gateway
}

func NewPayoutService(logger *zap.Logger, ledgers repository.LedgerRepository, gateway paygate.Gateway) PayoutService {
	return &payout{logger: logger, ledgers: ledgers, gateway: gateway}
}

func (s *payout) FindPayoutsToQueue(limit int) ([]model.Transaction, error) {
	return s.ledgers.FindUnpublishedPayouts(limit)
}

func (s *payout) MarkPayoutAsQueued(ctx context.Context, transactionID int64) error {
	err := s.ledgers.MarkPayoutPublished(ctx, transactionID)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		// Another publisher claimed it first.
		return ErrPayoutAlreadySettled
	}

	return err
}

func (s *payout) ProcessPayout(ctx context.Context, cmd ProcessPayoutCommand) error {
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		s.logger.Error("payout message carries invalid amount",
			zap.Int64("transaction_id", cmd.TransactionID), zap.String("amount", cmd.Amount))
		return err
	}

	transfer, err := s.gateway.Transfer(ctx, paygate.TransferRequest{
		Amount:         amount,
		ReceiverKey:    cmd.PixKey,
		Description:    fmt.Sprintf("withdrawal %d", cmd.TransactionID),
		IdempotencyKey: fmt.Sprintf("payout-%d", cmd.TransactionID),
	})
	if err != nil {
		if errors.Is(err, paygate.ErrTimeout) || errors.Is(err, paygate.ErrServerError) {
			s.logger.Warn("payout transfer failed, will retry",
				zap.Int64("transaction_id", cmd.TransactionID), zap.Error(err))
			return mq.Temporary(err)
		}

		s.logger.Error("payout transfer permanently rejected",
			zap.Int64("transaction_id", cmd.TransactionID), zap.Error(err))
		return err
	}

	s.logger.Info("payout transferred",
		zap.Int64("transaction_id", cmd.TransactionID),
		zap.Int64("user_id", cmd.UserID),
		zap.String("transfer_id", transfer.ID),
		zap.String("amount", amount.StringFixed(2)))

	return nil
}

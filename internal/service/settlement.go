package service

import (
	"context"
	"errors"

	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"go.uber.org/zap"
)

// SettlementService reconciles pending deposits against the payment gateway.
// Notification bodies are never trusted: the payment is always re-fetched and
// the fetched status decides the posting's fate. Replays and unknown
// references resolve to a no-op so the gateway always gets its ACK.
type SettlementService interface {
	HandleGatewayNotification(ctx context.Context, cmd GatewayNotificationCommand) error
}

type settlement struct {
	logger  *zap.Logger
	ledgers repository.LedgerRepository
	gateway paygate.Gateway
}

func NewSettlementService(logger *zap.Logger, ledgers repository.LedgerRepository, gateway paygate.Gateway) SettlementService {
	return &settlement{logger: logger, ledgers: ledgers, gateway: gateway}
}

func (s *settlement) HandleGatewayNotification(ctx context.Context, cmd GatewayNotificationCommand) error {
	if cmd.PaymentID == "" {
		s.logger.Warn("gateway notification without payment id", zap.String("action", cmd.Action))
		return nil
	}

	payment, err := s.gateway.GetPayment(ctx, cmd.PaymentID)
	if err != nil {
		s.logger.Error("failed to re-fetch payment",
			zap.String("payment_id", cmd.PaymentID), zap.Error(err))
		return NewServiceError(constants.ErrCodeExternalService, err)
	}

	var target model.TxStatus
	switch payment.Status {
	case paygate.PaymentStatusApproved:
		target = model.TxStatusCompleted
	case paygate.PaymentStatusRejected, paygate.PaymentStatusCancelled:
		target = model.TxStatusFailed
	default:
		s.logger.Info("payment still pending, nothing to settle",
			zap.String("payment_id", cmd.PaymentID), zap.String("status", payment.Status))
		return nil
	}

	err = s.ledgers.SettleByExternalRef(ctx, cmd.PaymentID, target)
	if err == nil {
		s.logger.Info("deposit settled",
			zap.String("payment_id", cmd.PaymentID), zap.String("status", string(target)))
		return nil
	}

	if !errors.Is(err, repository.ErrNoRowsAffected) {
		s.logger.Error("deposit settlement failed",
			zap.String("payment_id", cmd.PaymentID), zap.Error(err))
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	// Nothing pending for this reference. A replayed notification lands here
	// after the first delivery already settled the row.
	existing, lookupErr := s.ledgers.GetByExternalRef(cmd.PaymentID)
	if lookupErr != nil {
		s.logger.Warn("notification for unknown payment reference",
			zap.String("payment_id", cmd.PaymentID))
		return nil
	}

	s.logger.Info("notification replay ignored",
		zap.String("payment_id", cmd.PaymentID),
		zap.Int64("transaction_id", existing.ID),
		zap.String("status", string(existing.Status)))

	return nil
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/mocks"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestSettlement_HandleGatewayNotification(t *testing.T) {
	cmd := service.GatewayNotificationCommand{Action: "payment.updated", PaymentID: "pay-123"}

	t.Run("approved payment completes the pending deposit", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{ID: "pay-123", Status: paygate.PaymentStatusApproved}, nil)
		ledgers.On("SettleByExternalRef", mock.Anything, "pay-123", model.TxStatusCompleted).Return(nil)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		assert.NoError(t, err)
		ledgers.AssertExpectations(t)
	})

	t.Run("rejected payment fails the pending deposit", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{ID: "pay-123", Status: paygate.PaymentStatusRejected}, nil)
		ledgers.On("SettleByExternalRef", mock.Anything, "pay-123", model.TxStatusFailed).Return(nil)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		assert.NoError(t, err)
		ledgers.AssertExpectations(t)
	})

	t.Run("replayed notification is a no-op", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{ID: "pay-123", Status: paygate.PaymentStatusApproved}, nil)
		ledgers.On("SettleByExternalRef", mock.Anything, "pay-123", model.TxStatusCompleted).
			Return(repository.ErrNoRowsAffected)
		ledgers.On("GetByExternalRef", "pay-123").Return(&model.Transaction{
			ID: 9, Status: model.TxStatusCompleted,
		}, nil)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		assert.NoError(t, err)
	})

	t.Run("unknown reference is a no-op", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{ID: "pay-123", Status: paygate.PaymentStatusApproved}, nil)
		ledgers.On("SettleByExternalRef", mock.Anything, "pay-123", model.TxStatusCompleted).
			Return(repository.ErrNoRowsAffected)
		ledgers.On("GetByExternalRef", "pay-123").Return(nil, repository.ErrTransactionNotFound)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		assert.NoError(t, err)
	})

	t.Run("still pending payment settles nothing", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{ID: "pay-123", Status: paygate.PaymentStatusPending}, nil)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		assert.NoError(t, err)
		ledgers.AssertNotCalled(t, "SettleByExternalRef", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway fetch failure surfaces external service error", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		gateway.On("GetPayment", mock.Anything, "pay-123").
			Return(paygate.Payment{}, paygate.ErrTimeout)

		err := svc.HandleGatewayNotification(context.Background(), cmd)

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeExternalService, svcErr.Code)
	})

	t.Run("missing payment id is ignored", func(t *testing.T) {
		ledgers := &mocks.LedgerRepository{}
		gateway := &mocks.PaymentGateway{}
		svc := service.NewSettlementService(zap.NewNop(), ledgers, gateway)

		err := svc.HandleGatewayNotification(context.Background(),
			service.GatewayNotificationCommand{Action: "payment.updated"})

		assert.NoError(t, err)
		gateway.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
	})
}

package mocks

import (
	"context"

	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/stretchr/testify/mock"
)

type PaymentGateway struct {
	mock.Mock
}

func (p *PaymentGateway) CreatePayment(ctx context.Context, request paygate.CreatePaymentRequest) (paygate.Payment, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(paygate.Payment), args.Error(1)
}

func (p *PaymentGateway) GetPayment(ctx context.Context, paymentID string) (paygate.Payment, error) {
	args := p.Called(ctx, paymentID)
	return args.Get(0).(paygate.Payment), args.Error(1)
}

func (p *PaymentGateway) Transfer(ctx context.Context, request paygate.TransferRequest) (paygate.Transfer, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(paygate.Transfer), args.Error(1)
}

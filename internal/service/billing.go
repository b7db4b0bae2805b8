package service

import (
	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
)

// BillingService is pure computation: no storage, no I/O. Partial minutes bill
// as a full minute, and the fee is rounded before the earning is derived so
// fee + earning always reconstructs the total exactly.
type BillingService interface {
	CallCost(pricePerMinute decimal.Decimal, durationSeconds int64) (total decimal.Decimal, minutes int64)
	Split(total decimal.Decimal, rate decimal.Decimal) (fee, earning decimal.Decimal)
	CommissionRate(profile *model.Profile) decimal.Decimal
}

type billing struct {
	defaultCommissionRate decimal.Decimal
}

func NewBillingService(cfg *config.Config) BillingService {
	return &billing{
		defaultCommissionRate: decimal.NewFromFloat(cfg.Billing.DefaultCommissionRate),
	}
}

func (b *billing) CallCost(pricePerMinute decimal.Decimal, durationSeconds int64) (decimal.Decimal, int64) {
	if durationSeconds <= 0 {
		return decimal.Zero, 0
	}

	minutes := durationSeconds / 60
	if durationSeconds%60 != 0 {
		minutes++
	}

	total := pricePerMinute.Mul(decimal.NewFromInt(minutes)).Round(2)

	return total, minutes
}

func (b *billing) Split(total decimal.Decimal, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	fee := total.Mul(rate).Round(2)
	earning := total.Sub(fee)

	return fee, earning
}

func (b *billing) CommissionRate(profile *model.Profile) decimal.Decimal {
	if profile != nil && profile.CustomCommissionRate != nil {
		return *profile.CustomCommissionRate
	}

	return b.defaultCommissionRate
}

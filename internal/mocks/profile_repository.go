package mocks

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type ProfileRepository struct {
	mock.Mock
}

func (p *ProfileRepository) GetByUserID(userID int64) (*model.Profile, error) {
	args := p.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (p *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := p.Called(ctx, profile)
	return args.Error(0)
}

func (p *ProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := p.Called(ctx, profile)
	return args.Error(0)
}

func (p *ProfileRepository) ListPublicOnline() ([]model.Profile, error) {
	args := p.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (p *ProfileRepository) SetOnline(ctx context.Context, userID int64, online bool) error {
	args := p.Called(ctx, userID, online)
	return args.Error(0)
}

func (p *ProfileRepository) UpdateCommissionRate(ctx context.Context, userID int64, rate *decimal.Decimal) error {
	args := p.Called(ctx, userID, rate)
	return args.Error(0)
}

package mocks

import (
	"context"
	"time"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/stretchr/testify/mock"
)

type CallRequestRepository struct {
	mock.Mock
}

func (c *CallRequestRepository) Create(ctx context.Context, call *model.CallRequest) error {
	args := c.Called(ctx, call)
	return args.Error(0)
}

func (c *CallRequestRepository) GetByID(id int64) (*model.CallRequest, error) {
	args := c.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallRequest), args.Error(1)
}

func (c *CallRequestRepository) LatestRingingForStreamer(streamerID int64, window time.Duration) (*model.CallRequest, error) {
	args := c.Called(streamerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallRequest), args.Error(1)
}

func (c *CallRequestRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to model.CallStatus) error {
	args := c.Called(ctx, id, from, to)
	return args.Error(0)
}

func (c *CallRequestRepository) ExpireRinging(ctx context.Context, olderThan time.Time) (int64, error) {
	args := c.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

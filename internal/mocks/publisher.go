package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Publisher struct {
	mock.Mock
}

func (p *Publisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	args := p.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

func (p *Publisher) Close() error {
	args := p.Called()
	return args.Error(0)
}

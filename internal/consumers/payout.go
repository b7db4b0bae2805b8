package consumers

import (
	"context"
	"encoding/json"

	"github.com/flayve23/flayve-oficial/internal/metrics"
	"github.com/flayve23/flayve-oficial/internal/publishers"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/mq"
	"go.uber.org/zap"
)

type PayoutConsumer interface {
	Consume(ctx context.Context) error
}

type payoutConsumer struct {
	service  service.PayoutService
	consumer mq.Consumer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewPayoutConsumer(service service.PayoutService, consumer mq.Consumer, m *metrics.Metrics, logger *zap.Logger) PayoutConsumer {
	return &payoutConsumer{service: service, consumer: consumer, metrics: m, logger: logger}
}

func (p *payoutConsumer) Consume(ctx context.Context) error {
	return p.consumer.Consume(ctx, 1, publishers.PayoutQueue, p.handleMessage)
}

func (p *payoutConsumer) handleMessage(ctx context.Context, body []byte) error {
	p.logger.Info("received payout command", zap.ByteString("body", body))

	var cmd service.ProcessPayoutCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		p.logger.Warn("invalid payout command", zap.Error(err))
		return err
	}

	if err := p.service.ProcessPayout(ctx, cmd); err != nil {
		p.metrics.RecordPayoutProcessed("failure")
		return err
	}

	p.metrics.RecordPayoutProcessed("success")

	return nil
}

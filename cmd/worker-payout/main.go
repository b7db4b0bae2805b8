package main

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/consumers"
	"github.com/flayve23/flayve-oficial/internal/database"
	"github.com/flayve23/flayve-oficial/internal/metrics"
	"github.com/flayve23/flayve-oficial/internal/publishers"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/httpclient"
	"github.com/flayve23/flayve-oficial/pkg/mq"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			database.NewConnection,
			metrics.NewMetrics,
			NewMQConnection,
			NewMQConsumer,
			NewPayGate,

			repository.NewLedgerRepository,

			service.NewPayoutService,

			consumers.NewPayoutConsumer,
		),
		fx.Invoke(runPayoutConsumer),
	).Run()
}

func runPayoutConsumer(cfg *config.Config, payoutConsumer consumers.PayoutConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.PayoutQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", publishers.PayoutQueue))

			go func() {
				if err := payoutConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("payout consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping payout consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewPayGate(cfg *config.Config) paygate.Gateway {
	client := httpclient.NewHTTPClient(cfg.PayGate.Timeout)
	return paygate.NewGateway(cfg.PayGate, client)
}

package main

import (
	"context"
	"time"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/database"
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
			NewMQConnection,
			NewMQPublisher,
			NewPayGate,

			repository.NewLedgerRepository,

			service.NewPayoutService,

			publishers.NewPayoutPublisher,
		),
		fx.Invoke(runPayoutPublisher),
	).Run()
}

func runPayoutPublisher(cfg *config.Config, publisher publishers.PayoutPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.PayoutQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.PayoutQueue))

			go func() {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish payouts", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("payout publisher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping payout publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewPayGate(cfg *config.Config) paygate.Gateway {
	client := httpclient.NewHTTPClient(cfg.PayGate.Timeout)
	return paygate.NewGateway(cfg.PayGate, client)
}

package main

import (
	"context"
	"time"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/database"
	"github.com/flayve23/flayve-oficial/internal/metrics"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
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
			NewVideoIssuer,

			repository.NewUserRepository,
			repository.NewProfileRepository,
			repository.NewCallRequestRepository,
			repository.NewLedgerRepository,
			repository.NewTransactionManager,

			service.NewBillingService,
			service.NewCallService,
		),
		fx.Invoke(runTimeoutSweeper),
	).Run()
}

// runTimeoutSweeper periodically moves ringing sessions past the answer
// window into timeout so streamers stop seeing dead calls.
func runTimeoutSweeper(cfg *config.Config, calls service.CallService, m *metrics.Metrics,
	logger *zap.Logger, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(cfg.Calls.SweepInterval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						count, err := calls.ExpireStaleRinging(appCtx)
						if err != nil {
							logger.Error("failed to expire ringing calls", zap.Error(err))
							continue
						}
						m.RecordCallsExpired(count)
					case <-appCtx.Done():
						logger.Info("sweeper context cancelled")
						return
					}
				}
			}()

			logger.Info("call timeout sweeper started",
				zap.Duration("interval", cfg.Calls.SweepInterval),
				zap.Duration("window", cfg.Calls.RingingWindow))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping call timeout sweeper")
			cancel()
			return nil
		},
	})
}

func NewVideoIssuer(cfg *config.Config) videotoken.Issuer {
	return videotoken.NewIssuer(cfg.Video)
}

package main

import (
	"context"

	"github.com/flayve23/flayve-oficial/internal/api"
	v1 "github.com/flayve23/flayve-oficial/internal/api/v1"
	apivalidator "github.com/flayve23/flayve-oficial/internal/api/validator"
	"github.com/flayve23/flayve-oficial/internal/cache"
	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/database"
	apierrors "github.com/flayve23/flayve-oficial/internal/errors"
	"github.com/flayve23/flayve-oficial/internal/metrics"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/authtoken"
	"github.com/flayve23/flayve-oficial/pkg/httpclient"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewFiberApp,

			database.NewConnection,
			cache.NewClient,

			metrics.NewMetrics,
			NewXValidator,
			NewAuthVerifier,
			NewVideoIssuer,
			NewPayGate,

			repository.NewUserRepository,
			repository.NewProfileRepository,
			repository.NewCallRequestRepository,
			repository.NewLedgerRepository,
			repository.NewTransactionManager,

			service.NewBillingService,
			service.NewLedgerService,
			service.NewCallService,
			service.NewSettlementService,
			service.NewProfileService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, verifier authtoken.Verifier,
	cacheClient *redis.Client, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, verifier, cacheClient, cfg, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apierrors.ErrorHandler()})
}

func NewXValidator(m *metrics.Metrics) apivalidator.IXValidator {
	return apivalidator.NewXValidator(validator.New(), m)
}

func NewAuthVerifier(cfg *config.Config) authtoken.Verifier {
	return authtoken.NewVerifier(cfg.Auth)
}

func NewVideoIssuer(cfg *config.Config) videotoken.Issuer {
	return videotoken.NewIssuer(cfg.Video)
}

func NewPayGate(cfg *config.Config) paygate.Gateway {
	client := httpclient.NewHTTPClient(cfg.PayGate.Timeout)
	return paygate.NewGateway(cfg.PayGate, client)
}

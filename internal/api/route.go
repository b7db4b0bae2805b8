package api

import (
	"github.com/ansrivas/fiberprometheus/v2"
	v1 "github.com/flayve23/flayve-oficial/internal/api/v1"
	"github.com/flayve23/flayve-oficial/internal/api/v1/middleware"
	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/pkg/authtoken"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler, verifier authtoken.Verifier,
	cache *redis.Client, cfg *config.Config, logger *zap.Logger) {
	prom := fiberprometheus.New("flayve")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/ping", handler.Pong)
	app.Post("/webhooks/paygate", handler.GatewayWebhook)

	auth := middleware.Auth(verifier, logger)
	pollLimit := middleware.RateLimit(cache, cfg.Calls.PollRateLimit, cfg.Calls.PollRateWindow, logger)

	calls := app.Group(prefixV1+"/calls", auth)
	calls.Post("/", handler.RequestCall)
	calls.Get("/incoming", middleware.RequireRole(model.RoleStreamer), pollLimit, handler.IncomingCall)
	calls.Post("/:id/answer", middleware.RequireRole(model.RoleStreamer), handler.AnswerCall)
	calls.Get("/:id/status", pollLimit, handler.CallStatus)
	calls.Post("/:id/end", handler.EndCall)
	calls.Get("/check-balance/:streamerId", handler.CheckCallBalance)

	wallet := app.Group(prefixV1+"/wallet", auth)
	wallet.Get("/balance", handler.WalletBalance)
	wallet.Get("/transactions", handler.WalletTransactions)
	wallet.Post("/deposit", handler.Deposit)
	wallet.Post("/tip", handler.Tip)

	streamer := app.Group(prefixV1+"/streamer", auth, middleware.RequireRole(model.RoleStreamer))
	streamer.Get("/profile", handler.MyProfile)
	streamer.Put("/profile", handler.UpdateProfile)
	streamer.Post("/online", handler.SetOnline)
	streamer.Post("/withdraw", handler.Withdraw)
	streamer.Get("/earnings", handler.Earnings)

	app.Get(prefixV1+"/explorer", auth, handler.Explorer)
	app.Get(prefixV1+"/explorer/:id", auth, handler.PublicProfile)

	admin := app.Group(prefixV1+"/admin", auth, middleware.RequireRole(model.RoleAdmin))
	admin.Get("/users", handler.ListUsers)
	admin.Put("/users/:id/role", handler.UpdateUserRole)
	admin.Put("/users/:id/commission", handler.UpdateUserCommission)
	admin.Get("/withdrawals/pending", handler.PendingWithdrawals)
	admin.Post("/withdrawals/:id/review", handler.ReviewWithdrawal)
}

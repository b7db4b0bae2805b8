package v1

import (
	"github.com/flayve23/flayve-oficial/internal/api/validator"
	"github.com/flayve23/flayve-oficial/internal/metrics"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	XValidator validator.IXValidator
	metrics    *metrics.Metrics

	calls      service.CallService
	wallet     service.LedgerService
	profiles   service.ProfileService
	settlement service.SettlementService
}

func NewHandler(
	logger *zap.Logger,
	xValidator validator.IXValidator,
	metrics *metrics.Metrics,
	calls service.CallService,
	wallet service.LedgerService,
	profiles service.ProfileService,
	settlement service.SettlementService,
) *Handler {
	return &Handler{
		logger:     logger,
		XValidator: xValidator,
		metrics:    metrics,
		calls:      calls,
		wallet:     wallet,
		profiles:   profiles,
		settlement: settlement,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

package v1

import (
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GatewayWebhook receives settlement notifications. It always answers 200;
// failed reconciliations are retried through the gateway's own redelivery.
func (h *Handler) GatewayWebhook(c *fiber.Ctx) error {
	var handlerRequest GatewayWebhookRequest
	if err := c.BodyParser(&handlerRequest); err != nil {
		h.logger.Warn("unparseable gateway notification", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	paymentID := handlerRequest.Data.ID
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	err := h.settlement.HandleGatewayNotification(c.UserContext(), service.GatewayNotificationCommand{
		Action:    handlerRequest.Action,
		PaymentID: paymentID,
	})
	if err != nil {
		h.logger.Error("settlement failed, gateway will redeliver", zap.Error(err))
		return c.SendStatus(fiber.StatusOK)
	}

	h.metrics.RecordDepositSettled("handled")

	return c.SendStatus(fiber.StatusOK)
}

package publishers

import (
	"context"
	"encoding/json"

	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/mq"
	"go.uber.org/zap"
)

const PayoutQueue = "wallet.payout"

type PayoutPublisher interface {
	Publish(ctx context.Context) error
}

type payoutPublisher struct {
	service   service.PayoutService
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewPayoutPublisher(service service.PayoutService, publisher mq.Publisher, logger *zap.Logger) PayoutPublisher {
	return &payoutPublisher{service: service, publisher: publisher, logger: logger}
}

// Publish scans approved withdrawals that were never queued, publishes one
// message per payout and marks the row as published. A payout whose publish
// succeeds but whose mark fails will be republished on the next tick; the
// consumer's idempotency key absorbs the duplicate.
func (p *payoutPublisher) Publish(ctx context.Context) error {
	payouts, err := p.service.FindPayoutsToQueue(100)
	if err != nil {
		return err
	}

	if len(payouts) == 0 {
		return nil
	}

	p.logger.Info("publishing payouts", zap.Int("count", len(payouts)))

	successCount := 0
	for _, payout := range payouts {
		var meta struct {
			PixKey string `json:"pix_key"`
		}
		if len(payout.Metadata) > 0 {
			_ = json.Unmarshal(payout.Metadata, &meta)
		}

		cmd := service.ProcessPayoutCommand{
			TransactionID: payout.ID,
			UserID:        payout.UserID,
			Amount:        payout.Amount.StringFixed(2),
			PixKey:        meta.PixKey,
		}

		body, _ := json.Marshal(cmd)
		if err := p.publisher.Publish(ctx, "", PayoutQueue, body); err != nil {
			p.logger.Error("failed to publish payout",
				zap.Error(err),
				zap.Int64("transaction_id", payout.ID))
			continue
		}

		if err := p.service.MarkPayoutAsQueued(ctx, payout.ID); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		p.logger.Info("published payouts",
			zap.Int("published", successCount),
			zap.Int("total", len(payouts)))
	}

	return nil
}

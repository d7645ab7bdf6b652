// Package reward accrues envipoin for completed service transactions.
package reward

import (
	"context"
	"log/slog"

	"github.com/enviohq/envio-backend/internal/core/events"
)

// PointsLedger applies envipoin deltas to a user balance.
type PointsLedger interface {
	AddEnvipoin(userID int64, points int64) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	ledger PointsLedger
	bus    Publisher
	logger *slog.Logger
}

func NewService(ledger PointsLedger, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		ledger: ledger,
		bus:    bus,
		logger: logger,
	}
}

// CreditCompletion adds points to the user's balance and announces the
// completion. Idempotency lives with the caller: the completion transition
// only reaches here once per transaction.
func (s *Service) CreditCompletion(userID, transaksiID, points int64) error {
	if points <= 0 {
		return nil
	}

	if err := s.ledger.AddEnvipoin(userID, points); err != nil {
		s.logger.Error("envipoin credit failed",
			"error", err,
			"user_id", userID,
			"transaksi_id", transaksiID)
		return err
	}

	s.logger.Info("envipoin credited",
		"user_id", userID,
		"transaksi_id", transaksiID,
		"points", points)

	if s.bus != nil {
		event := events.NewSubscriptionCompletedEvent(transaksiID, userID, points)
		if err := s.bus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish completion event", "error", err)
		}
	}

	return nil
}

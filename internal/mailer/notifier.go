package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enviohq/envio-backend/internal/core/events"
)

// EmailLookup resolves a user ID to the address notifications go to.
type EmailLookup interface {
	EmailByID(userID int64) (string, error)
}

// CompletionNotifier emails users when their subscription finishes with
// envipoin credited.
type CompletionNotifier struct {
	mailer Mailer
	users  EmailLookup
	logger *slog.Logger
}

func NewCompletionNotifier(mailer Mailer, users EmailLookup, logger *slog.Logger) *CompletionNotifier {
	return &CompletionNotifier{mailer: mailer, users: users, logger: logger}
}

// HandleSubscriptionCompleted is registered on the event bus for
// subscription.completed events.
func (n *CompletionNotifier) HandleSubscriptionCompleted(ctx context.Context, event events.Event) error {
	completed, ok := event.(*events.SubscriptionCompletedEvent)
	if !ok {
		n.logger.Warn("unexpected event payload", "event_type", event.EventType())
		return nil
	}

	email, err := n.users.EmailByID(completed.UserID)
	if err != nil {
		return fmt.Errorf("lookup email for user %d: %w", completed.UserID, err)
	}

	body := fmt.Sprintf(
		`<p>Layanan Anda telah selesai.</p><p>Anda mendapatkan <strong>%d envipoin</strong> dari transaksi #%d.</p>`,
		completed.EnvipoinAwarded, completed.TransaksiID)

	return n.mailer.Send(email, "Layanan selesai - envipoin bertambah", body)
}

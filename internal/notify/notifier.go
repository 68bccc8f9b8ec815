// Package notify is the outbound notification port for match and message
// events. Delivery is fire-and-forget: services dispatch after their
// transaction commits, and a failed or slow notification never rolls back or
// delays the state change that triggered it.
//
// The concrete transport (push, email, websocket fan-out) lives behind the
// Notifier interface; the default implementation only logs, which is enough
// for local runs and tests.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Notifier receives domain events after they are durably committed.
// Implementations must be safe for concurrent use and must not block for
// longer than the context allows.
type Notifier interface {
	// MatchFound fires when two users' likes first become mutual.
	MatchFound(ctx context.Context, userA, userB, conversationID string)
	// MessageSent fires when a message (introduction or regular) is stored.
	MessageSent(ctx context.Context, senderID, recipientID, conversationID string)
}

// LogNotifier writes events to the structured log. It stands in for a real
// delivery channel and doubles as an audit trail in development.
type LogNotifier struct {
	Logger zerolog.Logger
}

// NewLogNotifier returns a LogNotifier backed by the global logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{Logger: log.Logger}
}

// MatchFound implements Notifier.
func (n *LogNotifier) MatchFound(_ context.Context, userA, userB, conversationID string) {
	n.Logger.Info().
		Str("user_a", userA).
		Str("user_b", userB).
		Str("conversation_id", conversationID).
		Msg("match found")
}

// MessageSent implements Notifier.
func (n *LogNotifier) MessageSent(_ context.Context, senderID, recipientID, conversationID string) {
	n.Logger.Info().
		Str("sender_id", senderID).
		Str("recipient_id", recipientID).
		Str("conversation_id", conversationID).
		Msg("message sent")
}

// Async dispatches fn on its own goroutine with a bounded, detached context.
// Callers invoke it after commit; the request context may already be done by
// the time fn runs, so a fresh timeout context is used instead.
func Async(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fn(ctx)
	}()
}

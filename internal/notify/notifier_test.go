package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLogNotifier_WritesEvents(t *testing.T) {
	var buf bytes.Buffer
	n := &LogNotifier{Logger: zerolog.New(&buf)}

	n.MatchFound(context.Background(), "ua", "ub", "c1")
	n.MessageSent(context.Background(), "s1", "r1", "c1")

	out := buf.String()
	if !strings.Contains(out, "match found") || !strings.Contains(out, `"user_a":"ua"`) {
		t.Fatalf("match event missing: %s", out)
	}
	if !strings.Contains(out, "message sent") || !strings.Contains(out, `"recipient_id":"r1"`) {
		t.Fatalf("message event missing: %s", out)
	}
}

func TestAsync_RunsDetached(t *testing.T) {
	done := make(chan struct{})
	Async(func(ctx context.Context) {
		if ctx.Err() != nil {
			t.Errorf("context already done: %v", ctx.Err())
		}
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("expected a deadline on the detached context")
		}
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never ran")
	}
}

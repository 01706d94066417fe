package monitor

import (
	"context"
	"time"

	"github.com/calvinmclean/codebot/telemetry"
)

// Sink forwards what the monitor hears somewhere else. Publish errors are logged by the
// monitor and never stop it
type Sink interface {
	Publish(ctx context.Context, msg telemetry.Message, robot Robot, now time.Time) error
	Close() error
}

// topicSuffix names the kind of line for topics and dashboard events
func topicSuffix(msg telemetry.Message) string {
	switch msg.Kind {
	case telemetry.KindBattery:
		return "battery"
	case telemetry.KindProgram:
		if msg.Event == "TEST" {
			return "test"
		}
		return "play"
	default:
		return "raw"
	}
}

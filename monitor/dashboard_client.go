package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/calvinmclean/codebot/dashboard"
	"github.com/calvinmclean/codebot/telemetry"
)

type dashboardClient interface {
	CreateSession(ctx context.Context, classroom string, now time.Time) (string, error)
	AddEvent(ctx context.Context, e dashboard.Event) error
	End(ctx context.Context, now time.Time) error
}

type noopDashboardClient struct{}

var _ dashboardClient = noopDashboardClient{}

// CreateSession implements dashboardClient.
func (n noopDashboardClient) CreateSession(ctx context.Context, classroom string, now time.Time) (string, error) {
	return "", nil
}

// AddEvent implements dashboardClient.
func (n noopDashboardClient) AddEvent(ctx context.Context, e dashboard.Event) error {
	return nil
}

// End implements dashboardClient.
func (n noopDashboardClient) End(ctx context.Context, now time.Time) error {
	return nil
}

// DashboardSink posts every line to a classroom session. The session is created by the
// first line so an idle monitor leaves no empty sessions behind
type DashboardSink struct {
	client    dashboardClient
	classroom string
	started   bool
	clock     func() time.Time
}

var _ Sink = &DashboardSink{}

func NewDashboardSink(addr, classroom string) *DashboardSink {
	var client dashboardClient = noopDashboardClient{}
	if addr != "" {
		client = dashboard.NewClient(addr)
	}
	return &DashboardSink{client: client, classroom: classroom, clock: time.Now}
}

func (s *DashboardSink) Publish(ctx context.Context, msg telemetry.Message, robot Robot, now time.Time) error {
	if !s.started {
		_, err := s.client.CreateSession(ctx, s.classroom, now)
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		s.started = true
	}

	e := dashboard.Event{
		DeviceID: robot.DeviceID,
		Kind:     topicSuffix(msg),
		Status:   string(robot.Status(now)),
		Raw:      msg.Raw,
		Time:     now,
	}
	switch msg.Kind {
	case telemetry.KindBattery:
		e.Voltage = robot.Voltage
	case telemetry.KindProgram:
		e.Button = msg.Event
		e.Program = msg.Program
	}

	err := s.client.AddEvent(ctx, e)
	if err != nil {
		return fmt.Errorf("error adding event for %s: %w", robot.DeviceID, err)
	}
	return nil
}

// Close ends the session, if one was started
func (s *DashboardSink) Close() error {
	if !s.started {
		return nil
	}
	s.started = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.client.End(ctx, s.clock())
	if err != nil {
		return fmt.Errorf("error ending session: %w", err)
	}
	return nil
}

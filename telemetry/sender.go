package telemetry

import (
	"errors"
	"time"

	"github.com/calvinmclean/codebot"
)

var (
	// ErrDropped is returned when every attempt to send a frame failed
	ErrDropped = errors.New("telemetry frame dropped")
	// ErrDegraded is returned when only the payload-less fallback frame went out
	ErrDegraded = errors.New("telemetry frame sent without payload")
	// ErrTooLong is returned by radios for frames longer than MaxFrameSize
	ErrTooLong = errors.New("telemetry frame too long")
)

// Radio is the broadcast radio. Send is best-effort and only reports local faults; nothing
// is ever acknowledged. Receive returns an empty slice when nothing is queued
type Radio interface {
	Send([]byte) error
	Receive() ([]byte, error)
}

// Policy controls how hard the Sender tries
type Policy struct {
	// MaxRetries is the number of attempts before giving up
	MaxRetries int
	// Settle is the pause after a successful send
	Settle time.Duration
	// RetryDelay is multiplied by the attempt number after each failure
	RetryDelay time.Duration
	// Fallback sends the event without its payload once all retries failed
	Fallback bool
}

var (
	BatteryPolicy = Policy{
		MaxRetries: 2,
		Settle:     5 * time.Millisecond,
		RetryDelay: 25 * time.Millisecond,
	}
	ButtonPolicy = Policy{
		MaxRetries: 3,
		Settle:     10 * time.Millisecond,
		RetryDelay: 50 * time.Millisecond,
		Fallback:   true,
	}
)

// Sender broadcasts telegrams for one device
type Sender struct {
	radio    Radio
	clock    codebot.Clock
	deviceID string
}

func NewSender(radio Radio, clock codebot.Clock, deviceID string) *Sender {
	return &Sender{
		radio:    radio,
		clock:    clock,
		deviceID: deviceID,
	}
}

// DeviceID is the first field of every frame this Sender builds
func (s *Sender) DeviceID() string {
	return s.deviceID
}

// SendBattery reports the pack voltage
func (s *Sender) SendBattery(volts float32) error {
	return s.Send(BatteryFrame(s.deviceID, volts), BatteryPolicy)
}

// SendButton reports a PLAY or TEST press. An empty program sends the event alone
func (s *Sender) SendButton(event string, program codebot.Program) error {
	return s.Send(ButtonFrame(s.deviceID, event, program), ButtonPolicy)
}

// Send transmits the frame following the policy. The returned error is informational only,
// callers are expected to carry on regardless
func (s *Sender) Send(f Frame, p Policy) error {
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		if s.radio.Send(f.Bytes()) == nil {
			s.clock.Sleep(p.Settle)
			return nil
		}
		s.clock.Sleep(time.Duration(attempt) * p.RetryDelay)
	}

	if p.Fallback && s.radio.Send(f.Degraded().Bytes()) == nil {
		return ErrDegraded
	}

	return ErrDropped
}

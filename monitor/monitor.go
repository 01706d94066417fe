// Package monitor attaches to a receiver's serial console and keeps track of every robot in
// the classroom. Each classified line updates the Fleet and is forwarded to the configured
// sinks (MQTT, the classroom dashboard).
package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/calvinmclean/codebot/telemetry"
)

// Monitor reads receiver lines and fans them out
type Monitor struct {
	cfg   Config
	port  io.ReadWriteCloser
	fleet *Fleet
	sinks []Sink
	clock func() time.Time
}

// NewFromEnv builds a Monitor from ConfigFromEnv
func NewFromEnv() (*Monitor, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// New validates the config, opens the serial port and connects the sinks
func New(cfg Config) (*Monitor, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var sinks []Sink
	if cfg.MQTTURL != "" {
		mqttSink, err := NewMQTTSink(cfg.MQTTURL)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mqttSink)
	}
	sinks = append(sinks, NewDashboardSink(cfg.DashboardAddr, cfg.Classroom))

	port, err := openSerial(cfg)
	if err != nil {
		for _, s := range sinks {
			_ = s.Close()
		}
		return nil, err
	}

	m := NewWithSinks(sinks...)
	m.cfg = cfg
	m.port = port

	glog.Infof("monitoring %s at %s baud with %d sinks", cfg.SerialPort, cfg.BaudRate, len(sinks))

	return m, nil
}

// NewWithSinks creates a Monitor that reads only from the input given to Run
func NewWithSinks(sinks ...Sink) *Monitor {
	return &Monitor{
		cfg:   Config{SerialPort: SerialPortNone, BaudRate: defaultBaudRate},
		fleet: NewFleet(),
		sinks: sinks,
		clock: time.Now,
	}
}

// Fleet is the live view of every robot heard so far
func (m *Monitor) Fleet() *Fleet {
	return m.fleet
}

// Close closes the sinks and the serial port
func (m *Monitor) Close() error {
	for _, s := range m.sinks {
		err := s.Close()
		if err != nil {
			glog.Errorf("error closing sink: %v", err)
		}
	}
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// Run handles receiver lines until the input ends or the context is cancelled. With a serial
// port open the lines come from the port and anything read from in is written to it, so a
// robot's debug console can be driven through the monitor. Without one, in is the receiver
// output. Every handled line is summarised on out
func (m *Monitor) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	src := in
	if m.port != nil {
		src = m.port
		go func() {
			_, err := io.Copy(m.port, in)
			if err != nil {
				glog.Errorf("error writing to serial: %v", err)
			}
		}()
	}

	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		done <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			if err != nil {
				return fmt.Errorf("error reading receiver: %w", err)
			}
			return nil
		case line := <-lines:
			m.HandleLine(ctx, line, out)
		}
	}
}

// HandleLine classifies one receiver line, updates the fleet and publishes it. Lines that
// name no usable device are only printed
func (m *Monitor) HandleLine(ctx context.Context, line string, out io.Writer) {
	msg := telemetry.Classify(line)
	if msg.Raw == "" {
		return
	}

	now := m.clock()
	robot, ok := m.fleet.Observe(msg, now)

	_, err := fmt.Fprintln(out, summary(msg, robot, ok, now))
	if err != nil {
		glog.Errorf("error writing output: %v", err)
	}

	if !ok {
		glog.V(1).Infof("ignored line %q", msg.Raw)
		return
	}

	for _, s := range m.sinks {
		err := s.Publish(ctx, msg, robot, now)
		if err != nil {
			glog.Errorf("error publishing %q: %v", msg.Raw, err)
		}
	}
}

// summary is the line printed for each handled receiver line
func summary(msg telemetry.Message, robot Robot, tracked bool, now time.Time) string {
	ts := "[" + now.Format(time.TimeOnly) + "] "
	if !tracked {
		return ts + "raw: " + msg.Raw
	}

	switch msg.Kind {
	case telemetry.KindBattery:
		return ts + robot.DeviceID + " battery " + formatVolts(robot.Voltage) + "V (" + string(robot.Status(now)) + ")"
	case telemetry.KindProgram:
		s := ts + robot.DeviceID + " " + msg.Event
		if msg.Program != "" {
			s += " " + msg.Program
		}
		return s + " (until " + robot.RunningUntil.Format(time.TimeOnly) + ")"
	default:
		return ts + robot.DeviceID + " raw: " + msg.Raw
	}
}

func formatVolts(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

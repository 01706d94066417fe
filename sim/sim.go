// Package sim runs the robot on a simulated board. Every output device prints to a writer, and
// the radio loops back into a receiver so the telegrams show up the way a classroom receiver
// would print them. Nothing runs in the background: the caller drives each scan.
package sim

import (
	"hash/fnv"
	"io"
	"time"

	"github.com/denisbrodbeck/machineid"

	"github.com/calvinmclean/codebot/robot"
	"github.com/calvinmclean/codebot/settings"
	"github.com/calvinmclean/codebot/telemetry"
)

// Config sets up a simulation
type Config struct {
	DeviceID string
	Store    settings.Store
	// Speed divides every sleep. Zero runs without waiting at all
	Speed float64
	// Volts is the starting battery voltage
	Volts float32
	Robot robot.Config
}

// Sim is a robot and a receiver sharing one simulated radio
type Sim struct {
	Clock   *Clock
	Pins    map[robot.Button]*Pin
	Touch   *Touch
	Display *Display
	Speaker *Speaker
	Left    *Servo
	Right   *Servo
	Battery *Battery
	Radio   *Radio

	Robot    *robot.Robot
	Receiver *telemetry.Receiver

	// OnReceive is called with every telegram the receiver printed
	OnReceive func(telemetry.Message)

	received []telemetry.Message
}

func New(cfg Config, out io.Writer) *Sim {
	clock := NewClock(time.Now(), cfg.Speed)
	s := &Sim{
		Clock:   clock,
		Pins:    map[robot.Button]*Pin{},
		Touch:   &Touch{},
		Display: &Display{out: out},
		Speaker: &Speaker{out: out},
		Left:    &Servo{out: out, name: "left"},
		Right:   &Servo{out: out, name: "right"},
		Battery: &Battery{Volts: cfg.Volts},
		Radio:   &Radio{},
	}
	for _, b := range []robot.Button{
		robot.ButtonStop,
		robot.ButtonPlay,
		robot.ButtonForward,
		robot.ButtonReverse,
		robot.ButtonLeft,
		robot.ButtonRight,
		robot.ButtonEnter,
	} {
		s.Pins[b] = &Pin{}
	}

	board := robot.Board{
		Buttons: robot.Buttons{
			Stop:    s.Pins[robot.ButtonStop],
			Play:    s.Pins[robot.ButtonPlay],
			Forward: s.Pins[robot.ButtonForward],
			Reverse: s.Pins[robot.ButtonReverse],
			Left:    s.Pins[robot.ButtonLeft],
			Right:   s.Pins[robot.ButtonRight],
			Enter:   s.Pins[robot.ButtonEnter],
		},
		Logo:       s.Touch,
		Display:    s.Display,
		Sound:      s.Speaker,
		LeftServo:  s.Left,
		RightServo: s.Right,
		Battery:    s.Battery,
		Radio:      s.Radio,
		Clock:      clock,
	}

	s.Robot = robot.New(board, cfg.Store, cfg.DeviceID, cfg.Robot)

	s.Receiver = telemetry.NewReceiver(s.Radio, &prefixWriter{out: out, prefix: "receiver: "}, clock)
	s.Receiver.IdleDelay = 0

	return s
}

// Start powers the robot on
func (s *Sim) Start() {
	s.Robot.Start()
	s.drain()
}

// Step runs one scan of the robot's main loop and lets the receiver catch up
func (s *Sim) Step() {
	s.Robot.Step()
	s.drain()
}

// Press presses and releases a button, one scan each. The logo pad is left as it is
func (s *Sim) Press(b robot.Button) {
	s.Hold(b)
	s.Release(b)
}

// Hold presses a button and runs one scan
func (s *Sim) Hold(b robot.Button) {
	s.Pins[b].Down = true
	s.Step()
}

// Release lets go of a button and runs one scan
func (s *Sim) Release(b robot.Button) {
	s.Pins[b].Down = false
	s.Step()
}

// Wait keeps scanning until at least d of simulated time has passed
func (s *Sim) Wait(d time.Duration) {
	until := s.Clock.Now().Add(d)
	for s.Clock.Now().Before(until) {
		s.Step()
	}
}

// Received returns and forgets the telegrams heard since the last call
func (s *Sim) Received() []telemetry.Message {
	msgs := s.received
	s.received = nil
	return msgs
}

func (s *Sim) drain() {
	for {
		msg, ok := s.Receiver.Poll()
		if !ok {
			return
		}
		s.received = append(s.received, msg)
		if s.OnReceive != nil {
			s.OnReceive(msg)
		}
	}
}

// MachineDeviceID derives a stable device id from the host's machine id, formatted like the
// hardware id of a real board
func MachineDeviceID() string {
	id, err := machineid.ID()
	if err != nil {
		return telemetry.FormatDeviceID(0x5151)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return telemetry.FormatDeviceID(h.Sum32())
}

type prefixWriter struct {
	out    io.Writer
	prefix string
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	_, err := io.WriteString(w.out, w.prefix+string(p))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

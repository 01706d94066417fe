// Package robot is the record-and-replay robot: it scans the buttons, records programs,
// replays them on the servos and runs the calibration menu. Everything runs on the caller's
// goroutine and every action blocks until it is finished, so presses made during a motion
// are missed rather than queued.
package robot

import (
	"context"
	"time"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/settings"
	"github.com/calvinmclean/codebot/telemetry"
)

// Config has the timing of the main loop
type Config struct {
	// Debounce follows every observed change of a button level
	Debounce time.Duration
	// BatteryInterval is how often the pack is sampled and reported
	BatteryInterval time.Duration
	// PollDelay is the pause at the top of every scan
	PollDelay time.Duration
	// TestStep is how long each arrow is shown when previewing a program
	TestStep time.Duration
	// DemoSegment is the length of each leg of the logo demo
	DemoSegment time.Duration
	// StopSettle is the pause after stopping the servos
	StopSettle time.Duration
}

// DefaultConfig is the timing the robot ships with
func DefaultConfig() Config {
	return Config{
		Debounce:        20 * time.Millisecond,
		BatteryInterval: 5 * time.Second,
		PollDelay:       50 * time.Millisecond,
		TestStep:        time.Second,
		DemoSegment:     20 * time.Second,
		StopSettle:      time.Second,
	}
}

// Robot owns all of the robot's state. Nothing in this package keeps state outside of it
type Robot struct {
	board  Board
	cfg    Config
	drive  *Drive
	sender *telemetry.Sender
	store  settings.Store
	pages  map[codebot.MenuPage]page

	settings settings.Settings
	menu     codebot.MenuPage
	program  codebot.Program

	// held is the last observed level of every button, true while pressed
	held    map[Button]bool
	touched bool

	volts       float32
	lastBattery time.Time

	startTime time.Time
	verbose   bool
}

// New loads the settings and prepares the robot. A store that fails to load leaves the robot
// running on defaults
func New(board Board, store settings.Store, deviceID string, cfg Config) *Robot {
	r := &Robot{
		board:  board,
		cfg:    cfg,
		drive:  NewDrive(board.LeftServo, board.RightServo, board.Display, board.Clock),
		sender: telemetry.NewSender(board.Radio, board.Clock, deviceID),
		store:  store,
		pages:  newMenu(),
		menu:   codebot.MenuNone,
		held:   map[Button]bool{},
	}
	r.drive.StopSettle = cfg.StopSettle

	s, err := store.Load()
	if err != nil {
		println(r.ts(), "error loading settings:", err.Error())
		s = settings.Defaults()
	}
	r.settings = s.Normalize()
	r.drive.Calibrate(r.settings)

	return r
}

// Start applies the volume and takes the first battery reading
func (r *Robot) Start() {
	r.startTime = r.board.Clock.Now()
	r.board.Sound.SetVolume(r.settings.Volume)

	println(r.ts(), "Started", r.sender.DeviceID())

	r.sampleBattery()
	r.board.Clock.Sleep(r.cfg.PollDelay)
}

// Run calls Step until the context is cancelled. Start must be called first
func (r *Robot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Step()
	}
}

// Step is one iteration of the main loop: battery upkeep, the idle face, one button scan and
// at most one action
func (r *Robot) Step() {
	if r.board.Clock.Now().Sub(r.lastBattery) >= r.cfg.BatteryInterval {
		r.sampleBattery()
	}

	if r.menu == codebot.MenuNone {
		r.board.Display.ShowIcon(BatteryIcon(r.volts))
	}

	r.drive.Calibrate(r.settings)
	r.board.Clock.Sleep(r.cfg.PollDelay)

	pressed := r.scan()
	r.touched = r.board.Logo.Touched()

	p, ok := r.pages[r.menu]
	if !ok {
		println(r.ts(), "unknown menu page", int(r.menu))
		r.menu = codebot.MenuNone
		return
	}

	for _, b := range scanOrder {
		if pressed[b] && r.dispatch(p, b) {
			return
		}
	}
}

// Press runs the action of a button on the active page as if it had just been pressed,
// without going through the inputs. It returns false when the page ignores the button
func (r *Robot) Press(b Button, touched bool) bool {
	p, ok := r.pages[r.menu]
	if !ok {
		return false
	}
	r.touched = touched
	return r.dispatch(p, b)
}

func (r *Robot) dispatch(p page, b Button) bool {
	action, ok := p.on[b]
	if !ok {
		return false
	}
	if r.verbose {
		println(r.ts(), "press", b.String(), "page", r.menu.String())
	}
	action(r)
	return true
}

// ReportBattery samples and reports the battery right away
func (r *Robot) ReportBattery() {
	r.sampleBattery()
}

// scan reads every button and returns the ones that went from released to pressed since
// the last scan
func (r *Robot) scan() map[Button]bool {
	pressed := map[Button]bool{}
	changed := false
	for _, b := range scanOrder {
		in := r.board.Buttons.Input(b)
		if in == nil {
			continue
		}
		// pull-ups: low means pressed
		down := !in.Get()
		if down != r.held[b] {
			changed = true
			if down {
				pressed[b] = true
			}
		}
		r.held[b] = down
	}
	if changed {
		r.board.Clock.Sleep(r.cfg.Debounce)
	}
	return pressed
}

// Program returns a copy of the recorded program
func (r *Robot) Program() codebot.Program {
	return append(codebot.Program(nil), r.program...)
}

// Menu is the active menu page
func (r *Robot) Menu() codebot.MenuPage {
	return r.menu
}

// Settings returns the in-memory settings, which may differ from the stored ones until the
// store action runs
func (r *Robot) Settings() settings.Settings {
	return r.settings
}

// Volts is the last battery reading
func (r *Robot) Volts() float32 {
	return r.volts
}

// Debug prints the robot's state
func (r *Robot) Debug() {
	d := r.ts() + " page=" + r.menu.String() + " program=[" + r.program.String() + "]"
	d += " battery=" + telemetry.FormatVoltage(r.volts)
	println(d)
}

// PrintSettings prints the in-memory calibration values
func (r *Robot) PrintSettings() {
	s := r.settings
	println(r.ts(), "balance", settings.BalanceString(s.LeftCompensation), settings.BalanceString(s.RightCompensation),
		"drive", s.DriveTime, "turn", s.TurnTime, "lang", s.Language.String(), "volume", s.Volume)
}

// Verbose increases logging
func (r *Robot) Verbose() {
	r.verbose = true
	println(r.ts(), "Set Verbose Mode")
}

// ts returns the time since Start for logging
func (r *Robot) ts() string {
	if r.startTime.IsZero() {
		return "[-]"
	}
	return "[" + r.board.Clock.Now().Sub(r.startTime).String() + "]"
}

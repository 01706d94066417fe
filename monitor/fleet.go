package monitor

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/telemetry"
)

// Status is how a robot looks from the classroom
type Status string

const (
	// StatusInactiveBattery means no battery report arrived recently, so the robot is probably off
	StatusInactiveBattery Status = "inactive_battery"
	StatusInactive        Status = "inactive"
	StatusActive          Status = "active"
	StatusIdle            Status = "idle"
)

const (
	maxDeviceIDLen  = 10
	maxButtonEvents = 10

	batteryTimeout  = 5 * time.Second
	activityTimeout = 180 * time.Second

	programBase  = 4000 * time.Millisecond
	programDrive = 1500 * time.Millisecond
	programTurn  = 1000 * time.Millisecond
)

// ButtonEvent is a PLAY or TEST heard from a robot
type ButtonEvent struct {
	Event   string
	Program codebot.Program
	Time    time.Time
}

// Robot is everything heard from one device
type Robot struct {
	DeviceID  string
	FirstSeen time.Time
	LastSeen  time.Time
	DataCount int

	Voltage      float32
	FirstBattery time.Time
	LastBattery  time.Time

	LastProgram time.Time
	// Events are the latest button events, oldest first
	Events []ButtonEvent
	// RunningUntil is when the last program is expected to finish
	RunningUntil time.Time
}

// Status classifies the robot at the given time
func (r Robot) Status(now time.Time) Status {
	if r.LastBattery.IsZero() || now.Sub(r.LastBattery) > batteryTimeout {
		return StatusInactiveBattery
	}
	if r.LastProgram.IsZero() {
		if !r.FirstBattery.IsZero() && now.Sub(r.FirstBattery) > activityTimeout {
			return StatusInactive
		}
		return StatusIdle
	}
	if now.Sub(r.LastProgram) > activityTimeout {
		return StatusInactive
	}
	return StatusActive
}

// Running is true while the last program is expected to still be moving the robot
func (r Robot) Running(now time.Time) bool {
	return now.Before(r.RunningUntil)
}

// ProgramDuration estimates how long a program takes to play, including the start-up
// melody and scroll
func ProgramDuration(p codebot.Program) time.Duration {
	d := programBase
	for _, m := range p {
		switch {
		case m == codebot.MotionForward || m == codebot.MotionReverse:
			d += programDrive
		case m.IsTurn():
			d += programTurn
		}
	}
	return d
}

// Fleet tracks every robot heard by the receiver. It is safe for concurrent use
type Fleet struct {
	mtx    sync.Mutex
	robots map[string]*Robot
}

func NewFleet() *Fleet {
	return &Fleet{robots: map[string]*Robot{}}
}

// Observe records a classified line. It returns false for lines that name no usable device
func (f *Fleet) Observe(msg telemetry.Message, now time.Time) (Robot, bool) {
	id := msg.DeviceID
	if msg.Kind == telemetry.KindRaw {
		fields := strings.Fields(msg.Raw)
		if len(fields) < 2 {
			return Robot{}, false
		}
		id = fields[0]
	}
	if id == "" || len(id) > maxDeviceIDLen {
		return Robot{}, false
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()

	r, ok := f.robots[id]
	if !ok {
		r = &Robot{DeviceID: id, FirstSeen: now}
		f.robots[id] = r
	}
	r.LastSeen = now
	r.DataCount++

	switch msg.Kind {
	case telemetry.KindBattery:
		volts, err := msg.Volts()
		if err != nil {
			break
		}
		r.Voltage = volts
		r.LastBattery = now
		if r.FirstBattery.IsZero() {
			r.FirstBattery = now
		}
	case telemetry.KindProgram:
		program := msg.Motions()
		r.Events = append(r.Events, ButtonEvent{Event: msg.Event, Program: program, Time: now})
		if len(r.Events) > maxButtonEvents {
			r.Events = r.Events[len(r.Events)-maxButtonEvents:]
		}
		r.LastProgram = now
		r.RunningUntil = now.Add(ProgramDuration(program))
	}

	return r.copy(), true
}

// Robot returns a snapshot of one robot
func (f *Fleet) Robot(id string) (Robot, bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	r, ok := f.robots[id]
	if !ok {
		return Robot{}, false
	}
	return r.copy(), true
}

// Robots returns a snapshot of every robot, ordered by device id
func (f *Fleet) Robots() []Robot {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	result := make([]Robot, 0, len(f.robots))
	for _, r := range f.robots {
		result = append(result, r.copy())
	}
	slices.SortFunc(result, func(a, b Robot) int {
		return strings.Compare(a.DeviceID, b.DeviceID)
	})
	return result
}

func (r *Robot) copy() Robot {
	c := *r
	c.Events = slices.Clone(r.Events)
	return c
}

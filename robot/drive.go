package robot

import (
	"time"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/settings"
)

// Pulse widths in milliseconds. A continuous-rotation servo spins one way at 1 ms, the other
// way at 2 ms
const (
	pulseLow  float32 = 1.0
	pulseHigh float32 = 2.0
)

// motionSpec describes how a Motion drives the servos
type motionSpec struct {
	icon Icon
	turn bool
	// pulses returns the left and right pulse widths for the given compensation
	pulses func(compL, compR float32) (float32, float32)
}

var motionTable = map[codebot.Motion]motionSpec{
	codebot.MotionForward: {
		icon: IconArrowN,
		pulses: func(compL, compR float32) (float32, float32) {
			return pulseHigh - compL, pulseLow + compR
		},
	},
	codebot.MotionReverse: {
		icon: IconArrowS,
		pulses: func(compL, compR float32) (float32, float32) {
			return pulseLow + compL, pulseHigh - compR
		},
	},
	codebot.MotionPivotLeft: {
		icon: IconArrowW,
		turn: true,
		pulses: func(_, _ float32) (float32, float32) {
			return pulseLow, pulseLow
		},
	},
	codebot.MotionPivotRight: {
		icon: IconArrowE,
		turn: true,
		pulses: func(_, _ float32) (float32, float32) {
			return pulseHigh, pulseHigh
		},
	},
}

// Drive moves the robot with its two servos. Every motion blocks until it is finished
type Drive struct {
	left, right Servo
	display     Display
	clock       codebot.Clock

	// StopSettle is the pause after cutting the servo pulses
	StopSettle time.Duration

	compL, compR        float32
	driveTime, turnTime time.Duration
}

// NewDrive creates a Drive calibrated with the default settings
func NewDrive(left, right Servo, display Display, clock codebot.Clock) *Drive {
	d := &Drive{
		left:       left,
		right:      right,
		display:    display,
		clock:      clock,
		StopSettle: time.Second,
	}
	d.Calibrate(settings.Defaults())
	return d
}

// Calibrate applies compensation and timing used by the following motions
func (d *Drive) Calibrate(s settings.Settings) {
	d.compL = s.LeftCompensation
	d.compR = s.RightCompensation
	d.driveTime = time.Duration(s.DriveTime) * time.Millisecond
	d.turnTime = time.Duration(s.TurnTime) * time.Millisecond
}

// SetPulseWidths drives both servos with raw pulse widths in milliseconds
func (d *Drive) SetPulseWidths(leftMs, rightMs float32) {
	d.left.SetMicroseconds(int16(leftMs*1000 + 0.5))
	d.right.SetMicroseconds(int16(rightMs*1000 + 0.5))
}

// Stop cuts the pulses to both servos and waits for them to come to rest
func (d *Drive) Stop() {
	d.left.SetMicroseconds(0)
	d.right.SetMicroseconds(0)
	d.clock.Sleep(d.StopSettle)
}

// Do runs a single motion. MotionNone does nothing and returns false
func (d *Drive) Do(m codebot.Motion) bool {
	spec, ok := motionTable[m]
	if !ok {
		return false
	}

	duration := d.driveTime
	if spec.turn {
		duration = d.turnTime
	}

	d.SetPulseWidths(spec.pulses(d.compL, d.compR))
	d.display.ShowIcon(spec.icon)
	d.clock.Sleep(duration)
	d.Stop()
	d.display.Clear()
	return true
}

func (d *Drive) Forward() { d.Do(codebot.MotionForward) }

func (d *Drive) Reverse() { d.Do(codebot.MotionReverse) }

func (d *Drive) PivotLeft() { d.Do(codebot.MotionPivotLeft) }

func (d *Drive) PivotRight() { d.Do(codebot.MotionPivotRight) }

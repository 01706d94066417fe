//go:build tinygo

package device

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/servo"
	"tinygo.org/x/drivers/tone"
)

// ButtonConfig has the pins of the push buttons, all wired to ground with internal pull-ups
type ButtonConfig struct {
	Stop    machine.Pin
	Play    machine.Pin
	Forward machine.Pin
	Reverse machine.Pin
	Left    machine.Pin
	Right   machine.Pin
	Enter   machine.Pin
	// Logo is the touch logo, read as a resistive pad
	Logo machine.Pin
}

// ServoConfig has device-level values for setting up both servos on one PWM peripheral
type ServoConfig struct {
	PWM   servo.PWM
	Left  machine.Pin
	Right machine.Pin
}

// SpeakerConfig has device-level values for setting up the speaker. It needs its own PWM
// peripheral because every note changes the period
type SpeakerConfig struct {
	PWM tone.PWM
	Pin machine.Pin
}

// BatteryConfig has the analog pin measuring the pack through the voltage divider
type BatteryConfig struct {
	Pin machine.Pin
}

// RadioConfig has the broadcast settings shared by the robot and the receiver. Units only hear
// each other with the same group and channel
type RadioConfig struct {
	Group   uint8
	Channel uint8
	// RxWindow is how long Receive listens before reporting that nothing arrived
	RxWindow time.Duration
}

// DisplayConfig has the matrix settings
type DisplayConfig struct {
	// ScrollDelay is how long each column step of scrolled text stays up
	ScrollDelay time.Duration
}

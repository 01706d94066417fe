// Package telemetry builds, sends and classifies the text telegrams broadcast by the robot.
//
// A telegram is UTF-8 text with space-delimited fields and no framing of its own:
//
//	<deviceId> <voltage>                 battery report, voltage with two decimals
//	<deviceId> <PLAY|TEST>[ <motions>]   button event, motions are space-joined names
package telemetry

import (
	"strconv"

	"github.com/calvinmclean/codebot"
)

// MaxFrameSize is the largest payload the radio is configured to carry
const MaxFrameSize = 251

// Frame is one telegram
type Frame struct {
	DeviceID string
	Event    string
	Payload  string
}

// String renders the frame as it goes on air
func (f Frame) String() string {
	s := f.DeviceID + " " + f.Event
	if f.Payload != "" {
		s += " " + f.Payload
	}
	return s
}

// Bytes is String as a byte slice for the radio
func (f Frame) Bytes() []byte {
	return []byte(f.String())
}

// Degraded drops the payload. It is the last resort when the full frame can't be sent
func (f Frame) Degraded() Frame {
	return Frame{DeviceID: f.DeviceID, Event: f.Event}
}

// BatteryFrame reports the pack voltage. The voltage takes the place of the event name
func BatteryFrame(deviceID string, volts float32) Frame {
	return Frame{DeviceID: deviceID, Event: FormatVoltage(volts)}
}

// ButtonFrame reports a PLAY or TEST press with the program it ran, if any
func ButtonFrame(deviceID, event string, program codebot.Program) Frame {
	return Frame{DeviceID: deviceID, Event: event, Payload: program.String()}
}

// FormatVoltage renders volts with exactly two decimal places
func FormatVoltage(volts float32) string {
	return strconv.FormatFloat(float64(volts), 'f', 2, 32)
}

// FormatDeviceID renders the hardware id the same way on every unit: 0x followed by
// lowercase hex without padding
func FormatDeviceID(id uint32) string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

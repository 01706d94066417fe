package robot

import (
	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/telemetry"
)

// Input is a digital input wired with a pull-up, so Get is false while the button is held.
// machine.Pin satisfies it
type Input interface {
	Get() bool
}

// TouchSensor is the capacitive logo pad
type TouchSensor interface {
	Touched() bool
}

// Display is the 5x5 LED matrix
type Display interface {
	ShowIcon(Icon)
	// ShowText shows a short text without scrolling, normally a single character
	ShowText(string)
	// Scroll blocks until the text has scrolled past
	Scroll(string)
	Clear()
	// Off releases the matrix pins so the shared battery pin can be sampled
	Off()
	On()
}

// Sound is the speaker. Play blocks until the melody is done
type Sound interface {
	Play(Melody)
	// SetVolume takes 0 to 255. Zero mutes
	SetVolume(uint8)
	Stop()
}

// Servo is a continuous-rotation servo. tinygo.org/x/drivers/servo.Servo satisfies it
type Servo interface {
	SetMicroseconds(int16)
}

// AnalogInput is an ADC channel scaled to 16 bits. machine.ADC satisfies it
type AnalogInput interface {
	Get() uint16
}

// Buttons are the seven push buttons wired to the edge connector
type Buttons struct {
	Stop    Input
	Play    Input
	Forward Input
	Reverse Input
	Left    Input
	Right   Input
	Enter   Input
}

// Board is everything the robot touches
type Board struct {
	Buttons    Buttons
	Logo       TouchSensor
	Display    Display
	Sound      Sound
	LeftServo  Servo
	RightServo Servo
	Battery    AnalogInput
	Radio      telemetry.Radio
	Clock      codebot.Clock
}

// Button names one of the push buttons
type Button int

const (
	ButtonStop Button = iota
	ButtonPlay
	ButtonForward
	ButtonReverse
	ButtonLeft
	ButtonRight
	ButtonEnter
)

// scanOrder is the priority when several buttons are pressed during the same scan. Only the
// first one with a handler on the current page runs
var scanOrder = []Button{
	ButtonStop,
	ButtonForward,
	ButtonReverse,
	ButtonLeft,
	ButtonRight,
	ButtonPlay,
	ButtonEnter,
}

func (b Button) String() string {
	switch b {
	case ButtonStop:
		return "stop"
	case ButtonPlay:
		return "play"
	case ButtonForward:
		return "forward"
	case ButtonReverse:
		return "reverse"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// ParseButton is the inverse of Button.String
func ParseButton(name string) (Button, bool) {
	for _, b := range scanOrder {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// Input returns the input wired to the button
func (b Buttons) Input(button Button) Input {
	switch button {
	case ButtonStop:
		return b.Stop
	case ButtonPlay:
		return b.Play
	case ButtonForward:
		return b.Forward
	case ButtonReverse:
		return b.Reverse
	case ButtonLeft:
		return b.Left
	case ButtonRight:
		return b.Right
	case ButtonEnter:
		return b.Enter
	default:
		return nil
	}
}

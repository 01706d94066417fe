//go:build tinygo

// Package device wires the micro:bit's peripherals to the robot and receiver.
package device

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/servo"

	"github.com/calvinmclean/codebot/robot"
)

// TouchPin reads the logo as a resistive pad: touching it pulls the pin low
type TouchPin struct {
	Pin machine.Pin
}

func (t TouchPin) Touched() bool {
	return !t.Pin.Get()
}

// BatteryADC samples the pack voltage. The pin is reconfigured before every reading because
// the display uses it as an output in between
type BatteryADC struct {
	adc machine.ADC
}

func (b BatteryADC) Get() uint16 {
	b.adc.Configure(machine.ADCConfig{})
	return b.adc.Get()
}

// New configures every peripheral of the robot and returns them as a robot.Board
func New(buttonCfg ButtonConfig, servoCfg ServoConfig, speakerCfg SpeakerConfig, batteryCfg BatteryConfig, radioCfg RadioConfig, displayCfg DisplayConfig) (robot.Board, error) {
	pullUp := machine.PinConfig{Mode: machine.PinInputPullup}
	for _, p := range []machine.Pin{
		buttonCfg.Stop,
		buttonCfg.Play,
		buttonCfg.Forward,
		buttonCfg.Reverse,
		buttonCfg.Left,
		buttonCfg.Right,
		buttonCfg.Enter,
		buttonCfg.Logo,
	} {
		p.Configure(pullUp)
	}

	servos, err := servo.NewArray(servoCfg.PWM)
	if err != nil {
		return robot.Board{}, errors.New("error creating servo array: " + err.Error())
	}
	left, err := servos.Add(servoCfg.Left)
	if err != nil {
		return robot.Board{}, errors.New("error creating left servo: " + err.Error())
	}
	right, err := servos.Add(servoCfg.Right)
	if err != nil {
		return robot.Board{}, errors.New("error creating right servo: " + err.Error())
	}
	left.SetMicroseconds(0)
	right.SetMicroseconds(0)

	matrix := NewMatrix(displayCfg)
	clock := Clock{Matrix: matrix}

	speaker, err := NewSpeaker(speakerCfg, clock)
	if err != nil {
		return robot.Board{}, err
	}

	machine.InitADC()
	battery := BatteryADC{adc: machine.ADC{Pin: batteryCfg.Pin}}

	radio, err := NewRadio(radioCfg)
	if err != nil {
		return robot.Board{}, errors.New("error creating radio: " + err.Error())
	}

	return robot.Board{
		Buttons: robot.Buttons{
			Stop:    buttonCfg.Stop,
			Play:    buttonCfg.Play,
			Forward: buttonCfg.Forward,
			Reverse: buttonCfg.Reverse,
			Left:    buttonCfg.Left,
			Right:   buttonCfg.Right,
			Enter:   buttonCfg.Enter,
		},
		Logo:       TouchPin{Pin: buttonCfg.Logo},
		Display:    matrix,
		Sound:      speaker,
		LeftServo:  left,
		RightServo: right,
		Battery:    battery,
		Radio:      radio,
		Clock:      clock,
	}, nil
}

// Serial is the USB console. It satisfies the I/O half of commands.Controller
type Serial struct{}

func (Serial) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (Serial) Buffered() int {
	return machine.Serial.Buffered()
}

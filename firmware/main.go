//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/calvinmclean/codebot/firmware/commands"
	"github.com/calvinmclean/codebot/firmware/device"
	"github.com/calvinmclean/codebot/robot"
	"github.com/calvinmclean/codebot/settings"
)

// console is the robot with the USB serial port attached, for commands.Poll
type console struct {
	*robot.Robot
	device.Serial
}

func main() {
	buttonCfg := device.ButtonConfig{
		Stop:    machine.P9,
		Play:    machine.P5,
		Forward: machine.P13,
		Reverse: machine.P14,
		Left:    machine.P16,
		Right:   machine.P15,
		Enter:   machine.P8,
		// P1.04, the touch logo on the v2 board
		Logo: machine.Pin(36),
	}

	servoCfg := device.ServoConfig{
		PWM:   machine.PWM1,
		Left:  machine.P1,
		Right: machine.P2,
	}

	speakerCfg := device.SpeakerConfig{
		PWM: machine.PWM0,
		// P0.00 drives the on-board speaker
		Pin: machine.Pin(0),
	}

	batteryCfg := device.BatteryConfig{
		Pin: machine.P3,
	}

	radioCfg := device.RadioConfig{
		Group:   1,
		Channel: 0,
	}

	displayCfg := device.DisplayConfig{
		ScrollDelay: 75 * time.Millisecond,
	}

	board, err := device.New(buttonCfg, servoCfg, speakerCfg, batteryCfg, radioCfg, displayCfg)
	if err != nil {
		panic(err)
	}

	// the two blocks at the start of the data area hold the settings slots
	store := settings.NewFlashStore(machine.Flash, 0)

	r := robot.New(board, store, device.DeviceID(), robot.DefaultConfig())
	r.Start()

	c := console{Robot: r}
	for {
		r.Step()
		commands.Poll(c)
	}
}

//go:build tinygo

package main

import (
	"context"
	"machine"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/firmware/device"
	"github.com/calvinmclean/codebot/telemetry"
)

func main() {
	radio, err := device.NewRadio(device.RadioConfig{
		Group:   1,
		Channel: 0,
	})
	if err != nil {
		panic(err)
	}

	println("receiver", device.DeviceID(), "listening")

	r := telemetry.NewReceiver(radio, machine.Serial, codebot.SystemClock{})
	r.Newline = "\r\n"
	r.OnError = func(err error) {
		println("error:", err.Error())
	}

	err = r.Run(context.Background())
	if err != nil {
		panic(err)
	}
}

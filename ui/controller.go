package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/calvinmclean/codebot/robot"
)

// consoleWrapper sends robot debug console commands. It is only useful when the monitor is
// attached to a robot's USB console instead of a receiver
type consoleWrapper struct {
	writer         io.Writer
	lastEventTimer *timer
}

var buttonFlags = map[robot.Button]byte{
	robot.ButtonStop:    'S',
	robot.ButtonPlay:    'P',
	robot.ButtonForward: 'F',
	robot.ButtonReverse: 'B',
	robot.ButtonLeft:    'L',
	robot.ButtonRight:   'R',
	robot.ButtonEnter:   'E',
}

// Press sends a button press. Touched holds the logo pad, which is sent as a lowercase flag
func (c *consoleWrapper) Press(b robot.Button, touched bool) {
	flag, ok := buttonFlags[b]
	if !ok {
		return
	}
	if touched {
		flag += 'a' - 'A'
	}
	c.lastEventTimer.Set(time.Now())
	fmt.Fprintf(c.writer, "P%c", flag)
}

func (c *consoleWrapper) ReportBattery() {
	fmt.Fprint(c.writer, "B")
}

func (c *consoleWrapper) Debug() {
	fmt.Fprint(c.writer, "D")
}

func (c *consoleWrapper) PrintSettings() {
	fmt.Fprint(c.writer, "C")
}

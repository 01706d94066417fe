// Package commands is the robot's serial debug console. Every command is a single flag byte
// followed by a fixed number of input bytes.
package commands

import (
	"errors"

	"github.com/calvinmclean/codebot/robot"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a robot
type Controller interface {
	Press(robot.Button, bool) bool
	ReportBattery()
	Debug()
	Verbose()
	PrintSettings()

	// I/O
	ReadByte() (byte, error)
	Buffered() int
}

var (
	PressCommand = &Command{
		Flag:      'P',
		InputSize: 1,
		Run: func(c Controller, input []byte) error {
			b, touched, ok := buttonFlag(input[0])
			if !ok {
				return errors.New("invalid input: " + string(input))
			}
			if !c.Press(b, touched) {
				println("ignored:", b.String())
			}
			return nil
		},
		Description: "Press a button. Input: 'S' (stop), 'P' (play), 'F', 'B', 'L', 'R' (directions), 'E' (enter). Lowercase holds the logo pad.",
	}
	BatteryCommand = &Command{
		Flag:      'B',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.ReportBattery()
			return nil
		},
		Description: "Sample and report the battery now.",
	}
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state.",
	}
	SettingsCommand = &Command{
		Flag:      'C',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.PrintSettings()
			return nil
		},
		Description: "Print the calibration settings.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, b []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

var buttonFlags = map[byte]robot.Button{
	'S': robot.ButtonStop,
	'P': robot.ButtonPlay,
	'F': robot.ButtonForward,
	'B': robot.ButtonReverse,
	'L': robot.ButtonLeft,
	'R': robot.ButtonRight,
	'E': robot.ButtonEnter,
}

// buttonFlag maps an input byte to a button. Lowercase letters mean the logo pad is held
func buttonFlag(in byte) (robot.Button, bool, bool) {
	touched := false
	if in >= 'a' && in <= 'z' {
		touched = true
		in -= 'a' - 'A'
	}
	b, ok := buttonFlags[in]
	return b, touched, ok
}

var commands = []*Command{
	PressCommand,
	BatteryCommand,
	DebugCommand,
	SettingsCommand,
	VerboseCommand,
}

// Poll runs at most one command. It returns right away when nothing is buffered, so it can
// share the robot's main loop
func Poll(c Controller) {
	if c.Buffered() == 0 {
		return
	}

	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}
	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	cmdIn, err := c.ReadByte()
	if err != nil {
		return
	}

	cmd, ok := cmdMap[cmdIn]
	if !ok {
		return
	}

	in := make([]byte, cmd.InputSize)
	for i := 0; i < int(cmd.InputSize); {
		b, err := c.ReadByte()
		if err != nil {
			continue
		}

		in[i] = b
		i++
	}

	err = cmd.Run(c, in)
	if err != nil {
		println("error:", err.Error())
	}
}

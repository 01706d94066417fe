package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/calvinmclean/codebot/monitor"
	"github.com/calvinmclean/codebot/robot"
	"github.com/calvinmclean/codebot/settings"
	"github.com/calvinmclean/codebot/sim"
	"github.com/calvinmclean/codebot/telemetry"
)

const simKey = "$sim"

func main() {
	var (
		speed       float64
		volts       float64
		deviceID    string
		settingsDir string
		mqttURL     string
		art         bool
	)
	flag.Float64Var(&speed, "speed", 1, "Divide every delay by this factor. 0 runs without waiting")
	flag.Float64Var(&volts, "volts", 3.9, "Starting battery voltage")
	flag.StringVar(&deviceID, "id", "", "Device id. Defaults to one derived from the machine id")
	flag.StringVar(&settingsDir, "settings", "", "Directory for the settings file. Defaults to the user config dir")
	flag.StringVar(&mqttURL, "mqtt", "", "Publish received telegrams to this MQTT broker, like mqtt://localhost:1883/codebot")
	flag.BoolVar(&art, "art", false, "Draw icons instead of printing their names")
	flag.Parse()
	defer glog.Flush()

	if deviceID == "" {
		deviceID = sim.MachineDeviceID()
	}

	if settingsDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			glog.Exitf("error finding config dir: %v", err)
		}
		settingsDir = filepath.Join(dir, "codebot")
	}
	s := sim.New(sim.Config{
		DeviceID: deviceID,
		Store:    settings.NewFileStore(settingsDir),
		Speed:    speed,
		Volts:    float32(volts),
		Robot:    robot.DefaultConfig(),
	}, os.Stdout)
	s.Display.Art = art

	if mqttURL != "" {
		sink, err := monitor.NewMQTTSink(mqttURL)
		if err != nil {
			glog.Exitf("error connecting to MQTT: %v", err)
		}
		m := monitor.NewWithSinks(sink)
		defer m.Close()

		s.OnReceive = func(msg telemetry.Message) {
			m.HandleLine(context.Background(), msg.String(), os.Stdout)
		}
	}

	shell := ishell.New()
	shell.Set(simKey, s)
	shell.SetPrompt(deviceID + " > ")
	for _, cmd := range commands {
		shell.AddCmd(cmd)
	}

	s.Start()

	if args := flag.Args(); len(args) > 0 {
		err := shell.Process(args...)
		if err != nil {
			glog.Exit(err)
		}
		return
	}
	shell.Run()
}

func simFrom(c *ishell.Context) *sim.Sim {
	return c.Get(simKey).(*sim.Sim)
}

// buttonArgs runs fn for every button named in the arguments
func buttonArgs(c *ishell.Context, fn func(*sim.Sim, robot.Button)) {
	if len(c.Args) == 0 {
		c.Println("usage:", c.Cmd.Help)
		return
	}
	s := simFrom(c)
	for _, name := range c.Args {
		b, ok := robot.ParseButton(name)
		if !ok {
			c.Println("unknown button:", name)
			return
		}
		fn(s, b)
	}
}

func onOff(c *ishell.Context) (bool, bool) {
	if len(c.Args) != 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
		c.Println("usage:", c.Cmd.Help)
		return false, false
	}
	return c.Args[0] == "on", true
}

var commands = []*ishell.Cmd{
	{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "BUTTON... press and release buttons in order: stop play forward reverse left right enter",
		Func: func(c *ishell.Context) {
			buttonArgs(c, (*sim.Sim).Press)
		},
	},
	{
		Name: "hold",
		Help: "BUTTON hold a button down for the following scans",
		Func: func(c *ishell.Context) {
			buttonArgs(c, (*sim.Sim).Hold)
		},
	},
	{
		Name: "release",
		Help: "BUTTON let go of a held button",
		Func: func(c *ishell.Context) {
			buttonArgs(c, (*sim.Sim).Release)
		},
	},
	{
		Name: "touch",
		Help: "on|off hold or let go of the logo pad",
		Func: func(c *ishell.Context) {
			on, ok := onOff(c)
			if !ok {
				return
			}
			simFrom(c).Touch.Held = on
		},
	},
	{
		Name: "step",
		Help: "[N] run N scans of the main loop, default 1",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) > 0 {
				var err error
				n, err = strconv.Atoi(c.Args[0])
				if err != nil || n < 1 {
					c.Println("invalid count:", c.Args[0])
					return
				}
			}
			s := simFrom(c)
			for i := 0; i < n; i++ {
				s.Step()
			}
		},
	},
	{
		Name: "wait",
		Help: "DURATION keep scanning for a while, like 5s",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage:", c.Cmd.Help)
				return
			}
			d, err := time.ParseDuration(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			simFrom(c).Wait(d)
		},
	},
	{
		Name: "program",
		Help: "print the recorded program",
		Func: func(c *ishell.Context) {
			p := simFrom(c).Robot.Program()
			if len(p) == 0 {
				c.Println("(empty)")
				return
			}
			c.Println(p.String())
		},
	},
	{
		Name: "settings",
		Help: "print the calibration settings and menu page",
		Func: func(c *ishell.Context) {
			r := simFrom(c).Robot
			st := r.Settings()
			c.Printf("page=%s balance=%s/%s drive=%dms turn=%dms lang=%s volume=%d\n",
				r.Menu(),
				settings.BalanceString(st.LeftCompensation),
				settings.BalanceString(st.RightCompensation),
				st.DriveTime, st.TurnTime, st.Language, st.Volume)
		},
	},
	{
		Name: "battery",
		Help: "[VOLTS] set the pack voltage and report it, or print the last reading",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			if len(c.Args) == 0 {
				c.Println(telemetry.FormatVoltage(s.Robot.Volts()) + "V")
				return
			}
			v, err := strconv.ParseFloat(c.Args[0], 32)
			if err != nil {
				c.Err(err)
				return
			}
			s.Battery.Volts = float32(v)
			s.Robot.ReportBattery()
			s.Step()
		},
	},
	{
		Name: "radio",
		Help: "on|off switch the loopback radio",
		Func: func(c *ishell.Context) {
			on, ok := onOff(c)
			if !ok {
				return
			}
			simFrom(c).Radio.Fail = !on
		},
	},
	{
		Name: "art",
		Help: "on|off draw icons instead of printing their names",
		Func: func(c *ishell.Context) {
			on, ok := onOff(c)
			if !ok {
				return
			}
			simFrom(c).Display.Art = on
		},
	},
}

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/golang/glog"

	"github.com/calvinmclean/codebot/monitor"
	"github.com/calvinmclean/codebot/ui"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if os.Getenv("ENABLE_UI") == "true" {
		runUI()
		return
	}

	runCLI()
}

func runUI() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := monitor.ConfigFromEnv()
	if err != nil {
		glog.Exit(err)
	}

	application := app.NewWithID("io.github.calvinmclean.codebot")

	configWindow := ui.NewConfigWindow(application)
	configWindow.OnSubmit = func() {
		m, err := monitor.New(cfg)
		if err != nil {
			glog.Errorf("error starting monitor: %v", err)
			application.Quit()
			return
		}

		r, w := io.Pipe()

		// read from Stdin also
		go func() {
			defer w.Close()
			io.Copy(w, os.Stdin)
		}()

		monitorUI := ui.NewMonitorUI(m.Fleet())

		go func() {
			defer m.Close()
			err := m.Run(ctx, r, io.MultiWriter(os.Stdout, monitorUI))
			if err != nil {
				glog.Errorf("monitor stopped: %v", err)
			}
		}()

		monitorUI.Show(ctx, application, w)
	}
	configWindow.Show(&cfg)

	application.Run()
	cancel()
}

func runCLI() {
	m, err := monitor.NewFromEnv()
	if err != nil {
		glog.Exit(err)
	}
	defer m.Close()

	err = m.Run(context.Background(), os.Stdin, os.Stdout)
	if err != nil {
		glog.Exit(err)
	}
}

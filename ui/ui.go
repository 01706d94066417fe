// Package ui is the classroom window of the monitor: every robot the receiver hears, its
// battery and latest program, plus the monitor's log.
package ui

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/codebot/monitor"
	"github.com/calvinmclean/codebot/robot"
)

const maxLogLines = 200

var columns = []string{"Robot", "Status", "Battery", "Last Program", ""}

type MonitorUI struct {
	fleet *monitor.Fleet

	mtx      sync.Mutex
	lines    []string
	logLabel *widget.Label
	heard    chan struct{}
}

var _ io.Writer = &MonitorUI{}

func NewMonitorUI(fleet *monitor.Fleet) *MonitorUI {
	return &MonitorUI{
		fleet: fleet,
		heard: make(chan struct{}, 1),
	}
}

// Write adds monitor output to the log. It can be called from any goroutine
func (ui *MonitorUI) Write(p []byte) (int, error) {
	ui.mtx.Lock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		ui.lines = append(ui.lines, line)
	}
	if len(ui.lines) > maxLogLines {
		ui.lines = ui.lines[len(ui.lines)-maxLogLines:]
	}
	text := strings.Join(ui.lines, "\n")
	label := ui.logLabel
	ui.mtx.Unlock()

	select {
	case ui.heard <- struct{}{}:
	default:
	}

	if label != nil {
		fyne.Do(func() {
			label.SetText(text)
		})
	}

	return len(p), nil
}

func (ui *MonitorUI) createLogAccordion() *widget.Accordion {
	ui.mtx.Lock()
	ui.logLabel = widget.NewLabel(strings.Join(ui.lines, "\n"))
	logScroll := container.NewVScroll(ui.logLabel)
	ui.mtx.Unlock()

	logScroll.SetMinSize(fyne.NewSize(300, 100))

	return widget.NewAccordion(
		widget.NewAccordionItem("Logs", logScroll),
	)
}

// createRobotTable lists the fleet. robots is refreshed by the caller
func createRobotTable(robots *[]monitor.Robot, now func() time.Time) *widget.Table {
	table := widget.NewTableWithHeaders(
		func() (int, int) {
			return len(*robots), len(columns)
		},
		func() fyne.CanvasObject {
			return canvas.NewText("0x00000000", nil)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			text := o.(*canvas.Text)
			if id.Row >= len(*robots) {
				text.Text = ""
				text.Refresh()
				return
			}

			r := (*robots)[id.Row]
			status := r.Status(now())
			text.Color = nil
			switch id.Col {
			case 0:
				text.Text = r.DeviceID
			case 1:
				text.Text = statusLabel(status)
				text.Color = statusColor(status)
			case 2:
				text.Text = batteryText(r)
			case 3:
				text.Text = programText(r)
			case 4:
				text.Text = ""
				if r.Running(now()) {
					text.Text = "running"
				}
			}
			text.Refresh()
		},
	)
	table.ShowHeaderColumn = false
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabel("Last Program")
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		label := o.(*widget.Label)
		if id.Row >= 0 || id.Col < 0 {
			label.SetText("")
			return
		}
		label.SetText(columns[id.Col])
	}
	for i, w := range []float32{110, 90, 100, 220, 70} {
		table.SetColumnWidth(i, w)
	}

	return table
}

// createConsoleButtons drives a robot attached over USB instead of a receiver
func createConsoleButtons(c *consoleWrapper) *widget.Accordion {
	touched := widget.NewCheck("Logo", nil)

	press := func(label string, b robot.Button) *widget.Button {
		return widget.NewButton(label, func() {
			c.Press(b, touched.Checked)
		})
	}

	buttons := container.NewVBox(
		container.NewGridWithColumns(4,
			press("Stop", robot.ButtonStop),
			press("Forward", robot.ButtonForward),
			press("Play", robot.ButtonPlay),
			touched,
			press("Left", robot.ButtonLeft),
			press("Reverse", robot.ButtonReverse),
			press("Right", robot.ButtonRight),
			press("Enter", robot.ButtonEnter),
		),
		container.NewHBox(
			widget.NewButton("Battery", c.ReportBattery),
			widget.NewButton("Debug", c.Debug),
			widget.NewButton("Settings", c.PrintSettings),
		),
	)

	return widget.NewAccordion(
		widget.NewAccordionItem("Robot Console", buttons),
	)
}

// Show opens the monitor window. Closing it quits the application, and so does the context
// being done. Console commands are written to w
func (ui *MonitorUI) Show(ctx context.Context, application fyne.App, w io.Writer) {
	window := application.NewWindow("Codebot Monitor")
	window.SetMaster()

	sessionTimer := newTimer(false)
	lastEventTimer := newTimer(true)
	sessionTimer.Go(ctx)
	lastEventTimer.Go(ctx)

	go func() {
		select {
		case <-ui.heard:
			sessionTimer.SetOnce(time.Now())
		case <-ctx.Done():
		}
	}()

	var robots []monitor.Robot
	table := createRobotTable(&robots, time.Now)
	robotCount := widget.NewLabel("No robots yet")

	go func() {
		for range time.Tick(time.Second) {
			select {
			case <-ctx.Done():
				return
			default:
			}
			snapshot := ui.fleet.Robots()
			fyne.Do(func() {
				robots = snapshot
				robotCount.SetText(countText(snapshot, time.Now()))
				table.Refresh()
			})
		}
	}()

	console := &consoleWrapper{writer: w, lastEventTimer: lastEventTimer}

	contentContainer := container.NewBorder(
		container.NewHBox(
			container.NewPadded(sessionTimer.text),
			robotCount,
			layout.NewSpacer(),
			container.NewPadded(lastEventTimer.text),
		),
		container.NewVBox(
			createConsoleButtons(console),
			ui.createLogAccordion(),
		),
		nil,
		nil,
		table,
	)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(640, 480))
	window.Show()
}

// countText summarises the fleet for the header
func countText(robots []monitor.Robot, now time.Time) string {
	if len(robots) == 0 {
		return "No robots yet"
	}
	active := 0
	for _, r := range robots {
		if r.Status(now) == monitor.StatusActive {
			active++
		}
	}
	return strconv.Itoa(active) + "/" + strconv.Itoa(len(robots)) + " active"
}

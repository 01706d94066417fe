package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/codebot/monitor"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func()
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *monitor.Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", cfg.SerialPort)
	cfg.BaudRate = prefs.StringWithFallback("baudRate", "115200")
	cfg.MQTTURL = prefs.StringWithFallback("mqttURL", cfg.MQTTURL)
	cfg.DashboardAddr = prefs.StringWithFallback("dashboardAddr", cfg.DashboardAddr)
	cfg.Classroom = prefs.StringWithFallback("classroom", cfg.Classroom)
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *monitor.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetString("baudRate", cfg.BaudRate)
	prefs.SetString("mqttURL", cfg.MQTTURL)
	prefs.SetString("dashboardAddr", cfg.DashboardAddr)
	prefs.SetString("classroom", cfg.Classroom)
}

func (cw *ConfigWindow) Show(cfg *monitor.Config) {
	window := cw.app.NewWindow("Codebot Monitor - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := monitor.GetSerialPorts()
	if err != nil && !errors.Is(err, monitor.ErrNoUSBSerial) {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, monitor.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&cfg.BaudRate))

	mqttEntry := widget.NewEntry()
	mqttEntry.SetPlaceHolder("mqtt://localhost:1883/codebot")
	mqttEntry.Bind(binding.BindString(&cfg.MQTTURL))

	dashboardEntry := widget.NewEntry()
	dashboardEntry.SetPlaceHolder("optional")
	dashboardEntry.Bind(binding.BindString(&cfg.DashboardAddr))

	classroomEntry := widget.NewEntry()
	classroomEntry.Bind(binding.BindString(&cfg.Classroom))

	errorLabel := widget.NewLabel("")

	submitButton := widget.NewButton("Submit", func() {
		cw.saveConfigToPreferences(cfg)
		cw.OnSubmit()
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		err := cfg.Validate()
		if err != nil {
			errorLabel.SetText(err.Error())
			submitButton.Disable()
			return
		}
		errorLabel.SetText("")
		submitButton.Enable()
	}

	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	mqttEntry.OnChanged = func(_ string) { validateForm() }
	dashboardEntry.OnChanged = func(_ string) { validateForm() }
	classroomEntry.OnChanged = func(_ string) { validateForm() }

	validateForm()

	form := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("MQTT URL:"),
				mqttEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Dashboard Address:"),
				dashboardEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Classroom:"),
				classroomEntry,
			),
		)),
		errorLabel,
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}

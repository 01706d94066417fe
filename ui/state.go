package ui

import (
	"image/color"
	"strconv"

	"github.com/calvinmclean/codebot/monitor"
)

// lowBattery is where the robot list starts warning about a pack
const lowBattery = 3.7

func statusLabel(s monitor.Status) string {
	switch s {
	case monitor.StatusActive:
		return "Active"
	case monitor.StatusIdle:
		return "Idle"
	case monitor.StatusInactive:
		return "Inactive"
	case monitor.StatusInactiveBattery:
		return "Off"
	default:
		return "Unknown"
	}
}

func statusColor(s monitor.Status) color.Color {
	switch s {
	case monitor.StatusActive:
		return color.RGBA{R: 34, G: 139, B: 34, A: 255}
	case monitor.StatusIdle:
		return color.RGBA{R: 65, G: 105, B: 225, A: 255}
	case monitor.StatusInactive:
		return color.RGBA{R: 200, G: 120, B: 0, A: 255}
	default:
		return color.RGBA{R: 139, G: 0, B: 0, A: 255}
	}
}

// batteryText shows the voltage, marked when it is getting low
func batteryText(r monitor.Robot) string {
	if r.LastBattery.IsZero() {
		return "-"
	}
	text := formatVolts(r.Voltage) + "V"
	if r.Voltage < lowBattery {
		text += " (low)"
	}
	return text
}

// programText is the latest button event
func programText(r monitor.Robot) string {
	if len(r.Events) == 0 {
		return "-"
	}
	last := r.Events[len(r.Events)-1]
	text := last.Event
	if len(last.Program) > 0 {
		text += " " + last.Program.String()
	}
	return text
}

func formatVolts(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

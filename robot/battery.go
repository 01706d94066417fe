package robot

import "github.com/calvinmclean/codebot/telemetry"

// Battery thresholds in volts
const (
	BatteryGood float32 = 3.60
	BatteryLow  float32 = 3.30
)

// BatteryVolts converts a 16-bit ADC reading of the pack. The pack is measured through a
// divider of two equal resistors against the 3.3 V reference
func BatteryVolts(raw uint16) float32 {
	return float32(raw) * 2 * 3.3 / 65536
}

// BatteryIcon is the face shown while idle
func BatteryIcon(volts float32) Icon {
	switch {
	case volts >= BatteryGood:
		return IconHappy
	case volts < BatteryLow:
		return IconSad
	default:
		return IconAsleep
	}
}

// sampleBattery measures the pack and reports it. The matrix shares the battery pin, so it
// is switched off for the reading
func (r *Robot) sampleBattery() {
	r.board.Display.Off()
	raw := r.board.Battery.Get()
	r.board.Display.On()

	r.volts = BatteryVolts(raw)
	r.lastBattery = r.board.Clock.Now()

	if r.verbose {
		println(r.ts(), "battery", telemetry.FormatVoltage(r.volts))
	}

	err := r.sender.SendBattery(r.volts)
	if err != nil && r.verbose {
		println(r.ts(), "error sending battery report:", err.Error())
	}
}

//go:build tinygo

package device

import (
	"errors"
	"time"
	"unsafe"

	"device/nrf"

	"github.com/calvinmclean/codebot/telemetry"
)

// radioBase is the shared base address. The group is the address prefix, so units in other
// groups never see our frames
const radioBase = 0x75626974

var _ telemetry.Radio = (*Radio)(nil)

// Radio drives the nRF RADIO peripheral directly. A frame on air is a length byte followed by
// up to telemetry.MaxFrameSize bytes of text, protected by the peripheral's CRC
type Radio struct {
	buffer   [telemetry.MaxFrameSize + 1]byte
	rxWindow time.Duration
}

func NewRadio(cfg RadioConfig) (*Radio, error) {
	if cfg.Channel > 83 {
		return nil, errors.New("invalid radio channel")
	}

	startHFCLK()

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	nrf.RADIO.TXPOWER.Set(nrf.RADIO_TXPOWER_TXPOWER_0dBm)
	// channel 0 sits at 2407 MHz like the micro:bit runtime
	nrf.RADIO.FREQUENCY.Set(uint32(cfg.Channel) + 7)

	nrf.RADIO.BASE0.Set(radioBase)
	nrf.RADIO.PREFIX0.Set(uint32(cfg.Group))
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(1)

	nrf.RADIO.PCNF0.Set(
		(8 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(telemetry.MaxFrameSize << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(4 << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Little << nrf.RADIO_PCNF1_ENDIAN_Pos) |
			(nrf.RADIO_PCNF1_WHITEEN_Enabled << nrf.RADIO_PCNF1_WHITEEN_Pos))

	nrf.RADIO.DATAWHITEIV.Set(0x18)

	nrf.RADIO.CRCCNF.Set(2)
	nrf.RADIO.CRCINIT.Set(0xFFFF)
	nrf.RADIO.CRCPOLY.Set(0x11021)

	rxWindow := cfg.RxWindow
	if rxWindow == 0 {
		rxWindow = 10 * time.Millisecond
	}

	return &Radio{rxWindow: rxWindow}, nil
}

// startHFCLK starts the high-frequency crystal the radio runs from
func startHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// Send transmits one frame. Nothing acknowledges it
func (r *Radio) Send(data []byte) error {
	if len(data) > telemetry.MaxFrameSize {
		return telemetry.ErrTooLong
	}

	r.buffer[0] = byte(len(data))
	copy(r.buffer[1:], data)

	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&r.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	r.disable()
	return nil
}

// Receive listens for one frame. It returns an empty slice when nothing arrived within the
// receive window and drops frames that fail the CRC
func (r *Radio) Receive() ([]byte, error) {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&r.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)

	start := time.Now()
	for nrf.RADIO.EVENTS_END.Get() == 0 {
		if time.Since(start) > r.rxWindow {
			r.disable()
			return nil, nil
		}
	}
	r.disable()

	if nrf.RADIO.CRCSTATUS.Get() == 0 {
		return nil, nil
	}

	n := int(r.buffer[0])
	if n > telemetry.MaxFrameSize {
		n = telemetry.MaxFrameSize
	}
	out := make([]byte, n)
	copy(out, r.buffer[1:1+n])
	return out, nil
}

func (r *Radio) disable() {
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
}

// DeviceID is the hardware id burned into the chip, formatted for telegrams
func DeviceID() string {
	return telemetry.FormatDeviceID(nrf.FICR.DEVICEID[0].Get())
}

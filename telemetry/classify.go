package telemetry

import (
	"strconv"
	"strings"

	"github.com/calvinmclean/codebot"
)

// Kind is the shape of a received telegram
type Kind int

const (
	KindRaw Kind = iota
	KindBattery
	KindProgram
)

func (k Kind) String() string {
	switch k {
	case KindBattery:
		return "battery"
	case KindProgram:
		return "program"
	default:
		return "raw"
	}
}

// Message is a classified telegram
type Message struct {
	Kind     Kind
	DeviceID string
	// Voltage is the untouched voltage field of a battery report
	Voltage string
	// Event is PLAY or TEST for program events
	Event string
	// Program is the rejoined motion names of a program event, possibly empty
	Program string
	// Raw is the trimmed telegram
	Raw string
}

// String is the line the receiver prints for this message
func (m Message) String() string {
	switch m.Kind {
	case KindBattery:
		return m.DeviceID + " " + m.Voltage
	case KindProgram:
		return m.DeviceID + " " + m.Event + " " + m.Program
	default:
		return m.Raw
	}
}

// Volts parses the voltage of a battery report
func (m Message) Volts() (float32, error) {
	v, err := strconv.ParseFloat(m.Voltage, 32)
	return float32(v), err
}

// Motions parses the program of a program event
func (m Message) Motions() codebot.Program {
	return codebot.ParseProgram(m.Program)
}

// Classify sorts a telegram into a battery report, a program event or anything else. It
// never fails: whatever can't be understood comes back as KindRaw with the frame intact
func Classify(frame string) (msg Message) {
	raw := strings.TrimSpace(frame)
	msg = Message{Kind: KindRaw, Raw: raw}

	defer func() {
		if r := recover(); r != nil {
			msg = Message{Kind: KindRaw, Raw: raw}
		}
	}()

	parts := strings.Split(raw, " ")
	if len(parts) < 2 {
		return msg
	}

	switch {
	case len(parts) == 2 && isNumeric(parts[1]):
		msg.Kind = KindBattery
		msg.DeviceID = parts[0]
		msg.Voltage = parts[1]
	case parts[1] == codebot.EventPlay || parts[1] == codebot.EventTest:
		msg.Kind = KindProgram
		msg.DeviceID = parts[0]
		msg.Event = parts[1]
		msg.Program = strings.Join(parts[2:], " ")
	}

	return msg
}

// isNumeric accepts digits with any number of dots, as long as at least one digit is there
func isNumeric(s string) bool {
	digits := 0
	for _, c := range s {
		switch {
		case c == '.':
		case c >= '0' && c <= '9':
			digits++
		default:
			return false
		}
	}
	return digits > 0
}

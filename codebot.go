package codebot

import (
	"strings"
	"time"
)

// Event names carried in button telegrams
const (
	EventPlay = "PLAY"
	EventTest = "TEST"
)

// Motion is one step of a recorded program
type Motion int

const (
	MotionNone Motion = iota
	MotionForward
	MotionReverse
	MotionPivotLeft
	MotionPivotRight
)

func (m Motion) String() string {
	switch m {
	case MotionForward:
		return "forward"
	case MotionReverse:
		return "reverse"
	case MotionPivotLeft:
		return "left"
	case MotionPivotRight:
		return "right"
	default:
		return "none"
	}
}

// IsTurn is true for the pivots, which run for the turn duration instead of the drive duration
func (m Motion) IsTurn() bool {
	return m == MotionPivotLeft || m == MotionPivotRight
}

// ParseMotion is the inverse of Motion.String. Unknown names return MotionNone
func ParseMotion(name string) Motion {
	switch name {
	case "forward":
		return MotionForward
	case "reverse":
		return MotionReverse
	case "left":
		return MotionPivotLeft
	case "right":
		return MotionPivotRight
	default:
		return MotionNone
	}
}

// Program is a recorded sequence of motions. Insertion order is execution order
type Program []Motion

// String joins the motion names with single spaces, which is the telegram payload format
func (p Program) String() string {
	names := make([]string, len(p))
	for i, m := range p {
		names[i] = m.String()
	}
	return strings.Join(names, " ")
}

// ParseProgram reads a space-joined program. Unknown names are skipped
func ParseProgram(s string) Program {
	var p Program
	for _, name := range strings.Fields(s) {
		m := ParseMotion(strings.ToLower(name))
		if m == MotionNone {
			continue
		}
		p = append(p, m)
	}
	return p
}

// Language selects the strings scrolled on the display
type Language int

const (
	LanguageEnglish Language = 1
	LanguageSpanish Language = 2
)

func (l Language) String() string {
	switch l {
	case LanguageSpanish:
		return "ESP"
	default:
		return "ENG"
	}
}

// Pick returns the English or Spanish variant of a message
func (l Language) Pick(english, spanish string) string {
	if l == LanguageSpanish {
		return spanish
	}
	return english
}

// MenuPage is the robot's menu state. MenuNone is normal record/play operation and the
// rest are calibration pages
type MenuPage int

const (
	MenuNone MenuPage = iota
	MenuLanguage
	MenuBalance
	MenuDrive
	MenuTurn
	MenuVolume
	MenuDataLog
)

func (p MenuPage) String() string {
	switch p {
	case MenuNone:
		return "None"
	case MenuLanguage:
		return "Language"
	case MenuBalance:
		return "Balance"
	case MenuDrive:
		return "Drive"
	case MenuTurn:
		return "Turn"
	case MenuVolume:
		return "Volume"
	case MenuDataLog:
		return "DataLog"
	default:
		return "Unknown"
	}
}

// Next goes to the next calibration page. The last page wraps around to the first one,
// never back to MenuNone
func (p MenuPage) Next() MenuPage {
	if p >= MenuDataLog || p < MenuNone {
		return MenuLanguage
	}
	return p + 1
}

// Clock is the board's monotonic clock. Every delay in the firmware goes through Sleep so
// tests and the simulator can control time
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

// SystemClock uses the time package
type SystemClock struct{}

var _ Clock = SystemClock{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

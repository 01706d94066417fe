package robot

import (
	"time"

	"github.com/calvinmclean/codebot"
)

// Icon is one of the images the robot shows on its matrix
type Icon int

const (
	IconNone Icon = iota
	IconHappy
	IconSad
	IconAsleep
	IconArrowN
	IconArrowS
	IconArrowE
	IconArrowW
	IconTarget
	IconSquare
	IconYes
	IconNo
	IconStickFigure
	IconMusicQuavers
	IconDataLog
	IconDemo
)

// Image is a 5x5 matrix of brightness levels from 0 to 9, indexed [row][column]
type Image [5][5]uint8

// icons are written as rows of brightness digits separated by colons
var icons = map[Icon]string{
	IconHappy:        "00000:09090:00000:90009:09990",
	IconSad:          "00000:09090:00000:09990:90009",
	IconAsleep:       "00000:99099:00000:09990:00000",
	IconArrowN:       "00900:09990:90909:00900:00900",
	IconArrowS:       "00900:00900:90909:09990:00900",
	IconArrowE:       "00900:00090:99999:00090:00900",
	IconArrowW:       "00900:09000:99999:09000:00900",
	IconTarget:       "00900:09990:99099:09990:00900",
	IconSquare:       "99999:90009:90009:90009:99999",
	IconYes:          "00000:00009:00090:90900:09000",
	IconNo:           "90009:09090:00900:09090:90009",
	IconStickFigure:  "00900:99999:00900:09090:90009",
	IconMusicQuavers: "09999:09009:09009:99099:99099",
	IconDataLog:      "99900:90090:90009:90009:99999",
	IconDemo:         "00900:00000:00900:00900:00900",
}

func (i Icon) String() string {
	switch i {
	case IconHappy:
		return "Happy"
	case IconSad:
		return "Sad"
	case IconAsleep:
		return "Asleep"
	case IconArrowN:
		return "ArrowN"
	case IconArrowS:
		return "ArrowS"
	case IconArrowE:
		return "ArrowE"
	case IconArrowW:
		return "ArrowW"
	case IconTarget:
		return "Target"
	case IconSquare:
		return "Square"
	case IconYes:
		return "Yes"
	case IconNo:
		return "No"
	case IconStickFigure:
		return "StickFigure"
	case IconMusicQuavers:
		return "MusicQuavers"
	case IconDataLog:
		return "DataLog"
	case IconDemo:
		return "Demo"
	default:
		return "None"
	}
}

// Image decodes the icon. IconNone and unknown icons are blank
func (i Icon) Image() Image {
	var img Image
	row, col := 0, 0
	for _, c := range icons[i] {
		if c == ':' {
			row++
			col = 0
			continue
		}
		if row < 5 && col < 5 {
			img[row][col] = uint8(c - '0')
		}
		col++
	}
	return img
}

// arrowIcon is the arrow shown while a motion runs or is previewed
func arrowIcon(m codebot.Motion) Icon {
	switch m {
	case codebot.MotionForward:
		return IconArrowN
	case codebot.MotionReverse:
		return IconArrowS
	case codebot.MotionPivotLeft:
		return IconArrowW
	case codebot.MotionPivotRight:
		return IconArrowE
	default:
		return IconNone
	}
}

// Melody is one of the tunes the robot plays
type Melody int

const (
	MelodyBaDing Melody = iota
	MelodyJumpUp
	MelodyJumpDown
	MelodySpring
	MelodyPython
)

// Tick is the length of one beat of a Note
const Tick = 125 * time.Millisecond

// Note is a MIDI key held for a number of ticks. Key 0 is a rest
type Note struct {
	Key   uint8
	Ticks uint8
}

var melodies = map[Melody][]Note{
	MelodyBaDing:   {{83, 1}, {88, 3}},
	MelodyJumpUp:   {{72, 1}, {74, 1}, {76, 1}, {77, 1}, {79, 1}},
	MelodyJumpDown: {{79, 1}, {74, 1}, {72, 1}, {67, 1}},
	MelodySpring:   {{72, 1}, {76, 1}, {79, 1}, {84, 1}},
	// opening bars of the Liberty Bell march
	MelodyPython: {
		{76, 4}, {81, 4}, {81, 4}, {80, 2}, {81, 2},
		{83, 4}, {81, 4}, {0, 2}, {76, 2}, {76, 2}, {79, 2},
		{81, 4}, {79, 4}, {76, 4}, {72, 8},
	},
}

func (m Melody) String() string {
	switch m {
	case MelodyBaDing:
		return "BaDing"
	case MelodyJumpUp:
		return "JumpUp"
	case MelodyJumpDown:
		return "JumpDown"
	case MelodySpring:
		return "Spring"
	case MelodyPython:
		return "Python"
	default:
		return "Unknown"
	}
}

// Notes returns the notes of the melody
func (m Melody) Notes() []Note {
	return melodies[m]
}

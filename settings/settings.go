// Package settings holds the robot's six calibration values and the edits the calibration
// menu is allowed to make to them. Every edit clamps at the edit site, so a Settings value
// that started valid stays valid.
package settings

import (
	"math"
	"strconv"

	"github.com/calvinmclean/codebot"
)

const (
	// CompensationStep is added per press on the balance page
	CompensationStep float32 = 0.01
	// CompensationCeiling is never reached: compensation stays below it
	CompensationCeiling float32 = 0.5

	DriveTimeStep int32 = 50
	TurnTimeStep  int32 = 10

	VolumeStep uint8 = 51
	MaxVolume  uint8 = 255
)

// Settings are the persisted calibration values
type Settings struct {
	// LeftCompensation trims the left servo, in milliseconds of pulse width
	LeftCompensation float32 `json:"comp1"`
	// RightCompensation trims the right servo, in milliseconds of pulse width
	RightCompensation float32 `json:"comp2"`
	// DriveTime is how long forward and reverse run, in milliseconds
	DriveTime int32 `json:"driveTime"`
	// TurnTime is how long pivots run, in milliseconds
	TurnTime int32            `json:"turnTime"`
	Language codebot.Language `json:"lang"`
	Volume   uint8            `json:"sound"`
}

// Defaults are the factory settings restored by the reset action
func Defaults() Settings {
	return Settings{
		LeftCompensation:  0.0,
		RightCompensation: 0.0,
		DriveTime:         1250,
		TurnTime:          670,
		Language:          codebot.LanguageEnglish,
		Volume:            102,
	}
}

// Reset restores Defaults
func (s *Settings) Reset() {
	*s = Defaults()
}

// Normalize repairs values that could only come from a damaged or hand-edited record
func (s Settings) Normalize() Settings {
	s.LeftCompensation = clampCompensation(s.LeftCompensation)
	s.RightCompensation = clampCompensation(s.RightCompensation)
	if s.DriveTime < 0 {
		s.DriveTime = 0
	}
	if s.TurnTime < 0 {
		s.TurnTime = 0
	}
	if s.Language != codebot.LanguageEnglish && s.Language != codebot.LanguageSpanish {
		s.Language = codebot.LanguageEnglish
	}
	s.Volume = snapVolume(s.Volume)
	return s
}

// IncreaseLeftCompensation adds one step of left trim. It returns false and leaves the value
// alone when the step would reach the ceiling
func (s *Settings) IncreaseLeftCompensation() bool {
	return increaseCompensation(&s.LeftCompensation)
}

// IncreaseRightCompensation is IncreaseLeftCompensation for the right servo
func (s *Settings) IncreaseRightCompensation() bool {
	return increaseCompensation(&s.RightCompensation)
}

// IncreaseDriveTime has no upper bound
func (s *Settings) IncreaseDriveTime() {
	s.DriveTime += DriveTimeStep
}

// DecreaseDriveTime returns false once the value is at the floor of 0
func (s *Settings) DecreaseDriveTime() bool {
	return decreaseTime(&s.DriveTime, DriveTimeStep)
}

// IncreaseTurnTime has no upper bound
func (s *Settings) IncreaseTurnTime() {
	s.TurnTime += TurnTimeStep
}

// DecreaseTurnTime returns false once the value is at the floor of 0
func (s *Settings) DecreaseTurnTime() bool {
	return decreaseTime(&s.TurnTime, TurnTimeStep)
}

// IncreaseVolume returns false at MaxVolume
func (s *Settings) IncreaseVolume() bool {
	if s.Volume >= MaxVolume {
		return false
	}
	if MaxVolume-s.Volume < VolumeStep {
		s.Volume = MaxVolume
		return true
	}
	s.Volume += VolumeStep
	return true
}

// DecreaseVolume returns false when already muted
func (s *Settings) DecreaseVolume() bool {
	if s.Volume == 0 {
		return false
	}
	if s.Volume < VolumeStep {
		s.Volume = 0
		return true
	}
	s.Volume -= VolumeStep
	return true
}

// BalancePercent is how the balance page shows a compensation value: 100 is untrimmed
func BalancePercent(compensation float32) int {
	return 100 - int(math.Round(float64(compensation)*200))
}

// BalanceString renders BalancePercent with a percent sign
func BalanceString(compensation float32) string {
	return strconv.Itoa(BalancePercent(compensation)) + "%"
}

func increaseCompensation(c *float32) bool {
	next := roundHundredths(*c + CompensationStep)
	if next >= CompensationCeiling {
		return false
	}
	*c = next
	return true
}

func decreaseTime(t *int32, step int32) bool {
	if *t <= 0 {
		*t = 0
		return false
	}
	if *t < step {
		*t = 0
		return true
	}
	*t -= step
	return true
}

// snapVolume rounds to the nearest multiple of VolumeStep
func snapVolume(v uint8) uint8 {
	step := int(VolumeStep)
	snapped := (int(v) + step/2) / step * step
	if snapped > int(MaxVolume) {
		snapped = int(MaxVolume)
	}
	return uint8(snapped)
}

func clampCompensation(c float32) float32 {
	if c < 0 || c != c {
		return 0
	}
	c = roundHundredths(c)
	if c >= CompensationCeiling {
		return CompensationCeiling - CompensationStep
	}
	return c
}

// roundHundredths keeps repeated 0.01 steps from drifting
func roundHundredths(c float32) float32 {
	return float32(math.Round(float64(c)*100) / 100)
}

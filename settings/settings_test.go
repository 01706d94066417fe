package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinmclean/codebot"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, float32(0), d.LeftCompensation)
	assert.Equal(t, float32(0), d.RightCompensation)
	assert.Equal(t, int32(1250), d.DriveTime)
	assert.Equal(t, int32(670), d.TurnTime)
	assert.Equal(t, codebot.LanguageEnglish, d.Language)
	assert.Equal(t, uint8(102), d.Volume)
}

func TestCompensationCeiling(t *testing.T) {
	s := Defaults()

	increments := 0
	for i := 0; i < 100; i++ {
		if s.IncreaseRightCompensation() {
			increments++
		}
		assert.GreaterOrEqual(t, s.RightCompensation, float32(0))
		assert.Less(t, s.RightCompensation, CompensationCeiling)
	}

	assert.Equal(t, 49, increments)
	assert.InDelta(t, 0.49, s.RightCompensation, 1e-6)
	assert.Equal(t, float32(0), s.LeftCompensation)

	before := s.RightCompensation
	assert.False(t, s.IncreaseRightCompensation())
	assert.Equal(t, before, s.RightCompensation)
}

func TestLeftCompensationSteps(t *testing.T) {
	s := Defaults()
	for i := 0; i < 3; i++ {
		assert.True(t, s.IncreaseLeftCompensation())
	}
	assert.InDelta(t, 0.03, s.LeftCompensation, 1e-6)
	assert.Equal(t, 94, BalancePercent(s.LeftCompensation))
	assert.Equal(t, "94%", BalanceString(s.LeftCompensation))
}

func TestTimeFloors(t *testing.T) {
	tests := []struct {
		name     string
		start    Settings
		decrease func(*Settings) bool
		get      func(Settings) int32
		presses  int
	}{
		{
			"DriveTime",
			Settings{DriveTime: 120},
			(*Settings).DecreaseDriveTime,
			func(s Settings) int32 { return s.DriveTime },
			10,
		},
		{
			"TurnTime",
			Settings{TurnTime: 35},
			(*Settings).DecreaseTurnTime,
			func(s Settings) int32 { return s.TurnTime },
			10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			for i := 0; i < tt.presses; i++ {
				tt.decrease(&s)
				assert.GreaterOrEqual(t, tt.get(s), int32(0))
			}
			assert.Equal(t, int32(0), tt.get(s))
			assert.False(t, tt.decrease(&s))
			assert.Equal(t, int32(0), tt.get(s))
		})
	}
}

func TestTimeSteps(t *testing.T) {
	s := Defaults()
	s.IncreaseDriveTime()
	s.IncreaseTurnTime()
	assert.Equal(t, int32(1300), s.DriveTime)
	assert.Equal(t, int32(680), s.TurnTime)

	assert.True(t, s.DecreaseDriveTime())
	assert.True(t, s.DecreaseTurnTime())
	assert.Equal(t, int32(1250), s.DriveTime)
	assert.Equal(t, int32(670), s.TurnTime)
}

func TestVolumeStaysOnSteps(t *testing.T) {
	valid := map[uint8]bool{0: true, 51: true, 102: true, 153: true, 204: true, 255: true}

	// a fixed pseudo-random walk of increments and decrements
	walk := "++--+++++++-+-----------++-+-++++++++---+"
	s := Defaults()
	for _, step := range walk {
		if step == '+' {
			s.IncreaseVolume()
		} else {
			s.DecreaseVolume()
		}
		assert.True(t, valid[s.Volume], "volume %d", s.Volume)
	}

	s.Volume = 255
	assert.False(t, s.IncreaseVolume())
	assert.Equal(t, uint8(255), s.Volume)

	s.Volume = 0
	assert.False(t, s.DecreaseVolume())
	assert.Equal(t, uint8(0), s.Volume)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Settings
		expected Settings
	}{
		{
			"AlreadyValid",
			Defaults(),
			Defaults(),
		},
		{
			"OutOfRange",
			Settings{
				LeftCompensation:  -0.2,
				RightCompensation: 0.75,
				DriveTime:         -50,
				TurnTime:          -1,
				Language:          7,
				Volume:            100,
			},
			Settings{
				LeftCompensation:  0,
				RightCompensation: 0.49,
				DriveTime:         0,
				TurnTime:          0,
				Language:          codebot.LanguageEnglish,
				Volume:            102,
			},
		},
		{
			"VolumeNearTop",
			Settings{Language: codebot.LanguageSpanish, Volume: 250},
			Settings{Language: codebot.LanguageSpanish, Volume: 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalize())
		})
	}
}

func TestBalancePercentEveryStep(t *testing.T) {
	s := Defaults()
	assert.Equal(t, 100, BalancePercent(s.LeftCompensation))

	for step := 1; s.IncreaseLeftCompensation(); step++ {
		assert.Equal(t, 100-2*step, BalancePercent(s.LeftCompensation), "step %d", step)
	}
	assert.Equal(t, 2, BalancePercent(s.LeftCompensation))
}

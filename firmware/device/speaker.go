//go:build tinygo

package device

import (
	"errors"
	"time"

	"tinygo.org/x/drivers/tone"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/robot"
)

var _ robot.Sound = (*Speaker)(nil)

// Speaker plays melodies as square waves. The PWM output has no amplitude control, so any
// volume above zero plays at full level and zero mutes
type Speaker struct {
	speaker tone.Speaker
	clock   codebot.Clock
	volume  uint8
}

func NewSpeaker(cfg SpeakerConfig, clock codebot.Clock) (*Speaker, error) {
	s, err := tone.New(cfg.PWM, cfg.Pin)
	if err != nil {
		return nil, errors.New("error creating speaker: " + err.Error())
	}
	s.Stop()

	return &Speaker{speaker: s, clock: clock, volume: 255}, nil
}

func (s *Speaker) Play(m robot.Melody) {
	if s.volume == 0 {
		return
	}
	for _, n := range m.Notes() {
		if n.Key == 0 {
			s.speaker.Stop()
		} else {
			s.speaker.SetNote(tone.Note(n.Key))
		}
		s.clock.Sleep(time.Duration(n.Ticks) * robot.Tick)
	}
	s.speaker.Stop()
}

func (s *Speaker) SetVolume(v uint8) {
	s.volume = v
	if v == 0 {
		s.speaker.Stop()
	}
}

func (s *Speaker) Stop() {
	s.speaker.Stop()
}

package sim

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/calvinmclean/codebot/robot"
)

// Clock runs on simulated time. Sleep advances it right away and, with a Speed above zero,
// also waits for the real time scaled down by Speed
type Clock struct {
	now   time.Time
	Speed float64
}

func NewClock(start time.Time, speed float64) *Clock {
	return &Clock{now: start, Speed: speed}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.now = c.now.Add(d)
	if c.Speed > 0 {
		time.Sleep(time.Duration(float64(d) / c.Speed))
	}
}

// Pin is a push button on a pull-up input
type Pin struct {
	Down bool
}

func (p *Pin) Get() bool {
	return !p.Down
}

// Touch is the logo pad
type Touch struct {
	Held bool
}

func (t *Touch) Touched() bool {
	return t.Held
}

// Display prints what the matrix would show. Repeats of the same picture are not printed
type Display struct {
	out  io.Writer
	last string
	// Art prints icons as a 5x5 grid instead of by name
	Art bool
	// Shown is the current picture, for tests and the shell
	Shown string
}

func (d *Display) show(what string, art string) {
	d.Shown = what
	if what == d.last {
		return
	}
	d.last = what
	if d.Art && art != "" {
		fmt.Fprintf(d.out, "display:\n%s", art)
		return
	}
	fmt.Fprintf(d.out, "display: %s\n", what)
}

func (d *Display) ShowIcon(i robot.Icon) {
	d.show("icon "+i.String(), renderImage(i.Image()))
}

func (d *Display) ShowText(s string) {
	d.show("text "+s, "")
}

// Scroll always prints, since the same text scrolling twice is two events
func (d *Display) Scroll(s string) {
	d.last = ""
	d.show("scroll "+s, "")
	d.last = ""
}

func (d *Display) Clear() {
	d.show("clear", "")
}

func (d *Display) Off() {}

// On forgets the picture, like the real matrix does when it is re-enabled
func (d *Display) On() {
	d.last = ""
}

func renderImage(img robot.Image) string {
	var b strings.Builder
	for _, row := range img {
		b.WriteString("  ")
		for _, px := range row {
			switch {
			case px == 0:
				b.WriteByte('.')
			case px < 9:
				b.WriteByte('+')
			default:
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Speaker prints the melodies it is asked to play
type Speaker struct {
	out    io.Writer
	Volume uint8
	Played []robot.Melody
}

func (s *Speaker) Play(m robot.Melody) {
	s.Played = append(s.Played, m)
	if s.Volume == 0 {
		return
	}
	fmt.Fprintf(s.out, "sound: %s\n", m)
}

func (s *Speaker) SetVolume(v uint8) {
	s.Volume = v
}

func (s *Speaker) Stop() {}

// Servo prints every pulse width change
type Servo struct {
	out   io.Writer
	name  string
	Pulse int16
}

func (s *Servo) SetMicroseconds(us int16) {
	if us == s.Pulse {
		return
	}
	s.Pulse = us
	if us == 0 {
		fmt.Fprintf(s.out, "servo %s: stop\n", s.name)
		return
	}
	fmt.Fprintf(s.out, "servo %s: %dus\n", s.name, us)
}

// Battery is the ADC reading of the battery pin for a pack voltage
type Battery struct {
	Volts float32
}

func (b *Battery) Get() uint16 {
	raw := b.Volts * 65536 / (2 * 3.3)
	switch {
	case raw < 0:
		return 0
	case raw > 65535:
		return 65535
	}
	return uint16(raw)
}

// Radio delivers everything sent straight back to Receive
type Radio struct {
	queue [][]byte
	// Fail makes Send report an error, to watch the retry and fallback paths
	Fail bool
}

var errRadioOff = errors.New("radio switched off")

func (r *Radio) Send(data []byte) error {
	if r.Fail {
		return errRadioOff
	}
	r.queue = append(r.queue, append([]byte(nil), data...))
	return nil
}

func (r *Radio) Receive() ([]byte, error) {
	if len(r.queue) == 0 {
		return nil, nil
	}
	data := r.queue[0]
	r.queue = r.queue[1:]
	return data, nil
}

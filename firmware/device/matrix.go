//go:build tinygo

package device

import (
	"image/color"
	"time"

	"tinygo.org/x/drivers/microbitmatrix"
	"tinygo.org/x/tinyfont"

	"github.com/calvinmclean/codebot/robot"
)

var _ robot.Display = (*Matrix)(nil)

var brightness = [10]color.RGBA{
	microbitmatrix.Brightness0,
	microbitmatrix.Brightness1,
	microbitmatrix.Brightness2,
	microbitmatrix.Brightness3,
	microbitmatrix.Brightness4,
	microbitmatrix.Brightness5,
	microbitmatrix.Brightness6,
	microbitmatrix.Brightness7,
	microbitmatrix.Brightness8,
	microbitmatrix.Brightness9,
}

// Matrix is the 5x5 LED display. The matrix is multiplexed, so it only lights up while it is
// refreshed: Clock.Sleep does that whenever the robot waits
type Matrix struct {
	dev         microbitmatrix.Device
	scrollDelay time.Duration
	on          bool
	lit         bool
}

func NewMatrix(cfg DisplayConfig) *Matrix {
	m := &Matrix{
		dev:         microbitmatrix.New(),
		scrollDelay: cfg.ScrollDelay,
		on:          true,
	}
	if m.scrollDelay == 0 {
		m.scrollDelay = 75 * time.Millisecond
	}
	m.dev.Configure(microbitmatrix.Config{Rotation: microbitmatrix.RotationNormal})
	return m
}

func (m *Matrix) ShowIcon(i robot.Icon) {
	m.dev.ClearDisplay()
	img := i.Image()
	for y := range img {
		for x, level := range img[y] {
			if level > 9 {
				level = 9
			}
			m.dev.SetPixel(int16(x), int16(y), brightness[level])
		}
	}
	m.lit = true
}

func (m *Matrix) ShowText(s string) {
	m.dev.ClearDisplay()
	tinyfont.WriteLine(&m.dev, &tinyfont.TomThumb, 1, 5, s, microbitmatrix.BrightnessFull)
	m.lit = true
}

// Scroll moves the text in from the right edge until it has left on the left
func (m *Matrix) Scroll(s string) {
	_, width := tinyfont.LineWidth(&tinyfont.TomThumb, s)
	for x := int16(5); x >= -int16(width); x-- {
		m.dev.ClearDisplay()
		tinyfont.WriteLine(&m.dev, &tinyfont.TomThumb, x, 5, s, microbitmatrix.BrightnessFull)
		m.lit = true
		m.refreshFor(m.scrollDelay)
	}
	m.Clear()
}

func (m *Matrix) Clear() {
	m.dev.ClearDisplay()
	m.dev.DisableAll()
	m.lit = false
}

// Off stops driving the matrix. Column 3 shares its pin with the battery input
func (m *Matrix) Off() {
	m.on = false
	m.dev.DisableAll()
}

// On takes the pins back after Off. Whatever was shown before is gone
func (m *Matrix) On() {
	m.dev.Configure(microbitmatrix.Config{Rotation: microbitmatrix.RotationNormal})
	m.lit = false
	m.on = true
}

// refresh draws one frame. It returns false when there was nothing to draw
func (m *Matrix) refresh() bool {
	if !m.on || !m.lit {
		return false
	}
	err := m.dev.Display()
	if err != nil {
		println("error refreshing display:", err.Error())
		return false
	}
	return true
}

func (m *Matrix) refreshFor(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if !m.refresh() {
			time.Sleep(time.Until(deadline))
			return
		}
	}
}

// Clock keeps the matrix lit while the robot sleeps
type Clock struct {
	Matrix *Matrix
}

func (c Clock) Now() time.Time {
	return time.Now()
}

func (c Clock) Sleep(d time.Duration) {
	if c.Matrix == nil {
		time.Sleep(d)
		return
	}
	c.Matrix.refreshFor(d)
}

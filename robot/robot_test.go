package robot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/settings"
)

type fakeInput struct{ pressed bool }

func (i *fakeInput) Get() bool { return !i.pressed }

type fakeTouch struct{ touched bool }

func (t *fakeTouch) Touched() bool { return t.touched }

type fakeDisplay struct{ calls []string }

func (d *fakeDisplay) ShowIcon(i Icon) { d.calls = append(d.calls, "icon:"+i.String()) }

func (d *fakeDisplay) ShowText(s string) { d.calls = append(d.calls, "text:"+s) }

func (d *fakeDisplay) Scroll(s string) { d.calls = append(d.calls, "scroll:"+s) }

func (d *fakeDisplay) Clear() { d.calls = append(d.calls, "clear") }

func (d *fakeDisplay) Off() { d.calls = append(d.calls, "off") }

func (d *fakeDisplay) On() { d.calls = append(d.calls, "on") }

func (d *fakeDisplay) reset() { d.calls = nil }

func (d *fakeDisplay) has(c string) bool { return contains(d.calls, c) }

// with returns the calls starting with the prefix
func (d *fakeDisplay) with(prefix string) []string {
	var out []string
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// lastWith is the most recent call starting with the prefix
func (d *fakeDisplay) lastWith(prefix string) string {
	calls := d.with(prefix)
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1]
}

type fakeSound struct {
	played  []Melody
	volume  uint8
	stopped int
}

func (s *fakeSound) Play(m Melody) { s.played = append(s.played, m) }

func (s *fakeSound) SetVolume(v uint8) { s.volume = v }

func (s *fakeSound) Stop() { s.stopped++ }

type fakeServo struct{ pulses []int16 }

func (s *fakeServo) SetMicroseconds(us int16) { s.pulses = append(s.pulses, us) }

type fakeADC struct{ raw uint16 }

func (a *fakeADC) Get() uint16 { return a.raw }

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type fakeRadio struct{ sent []string }

func (r *fakeRadio) Send(data []byte) error {
	r.sent = append(r.sent, string(data))
	return nil
}

func (r *fakeRadio) Receive() ([]byte, error) { return nil, nil }

// events are the button telegrams, without the battery reports
func (r *fakeRadio) events() []string {
	var out []string
	for _, s := range r.sent {
		if strings.Contains(s, codebot.EventPlay) || strings.Contains(s, codebot.EventTest) {
			out = append(out, s)
		}
	}
	return out
}

type memStore struct {
	s       settings.Settings
	loadErr error
	saves   int
}

func (m *memStore) Load() (settings.Settings, error) { return m.s, m.loadErr }

func (m *memStore) Save(s settings.Settings) error {
	m.s = s
	m.saves++
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type testRobot struct {
	*Robot
	buttons map[Button]*fakeInput
	logo    *fakeTouch
	display *fakeDisplay
	sound   *fakeSound
	left    *fakeServo
	right   *fakeServo
	adc     *fakeADC
	clock   *fakeClock
	radio   *fakeRadio
}

func newTestRobot(t *testing.T, store settings.Store) *testRobot {
	t.Helper()

	tr := &testRobot{
		buttons: map[Button]*fakeInput{},
		logo:    &fakeTouch{},
		display: &fakeDisplay{},
		sound:   &fakeSound{},
		left:    &fakeServo{},
		right:   &fakeServo{},
		// 3.83 V
		adc:   &fakeADC{raw: 38000},
		clock: &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		radio: &fakeRadio{},
	}
	for _, b := range scanOrder {
		tr.buttons[b] = &fakeInput{}
	}

	board := Board{
		Buttons: Buttons{
			Stop:    tr.buttons[ButtonStop],
			Play:    tr.buttons[ButtonPlay],
			Forward: tr.buttons[ButtonForward],
			Reverse: tr.buttons[ButtonReverse],
			Left:    tr.buttons[ButtonLeft],
			Right:   tr.buttons[ButtonRight],
			Enter:   tr.buttons[ButtonEnter],
		},
		Logo:       tr.logo,
		Display:    tr.display,
		Sound:      tr.sound,
		LeftServo:  tr.left,
		RightServo: tr.right,
		Battery:    tr.adc,
		Radio:      tr.radio,
		Clock:      tr.clock,
	}

	tr.Robot = New(board, store, "0x1", DefaultConfig())
	tr.Start()
	return tr
}

// press holds the button for one scan and releases it on the next
func (tr *testRobot) press(b Button) {
	tr.buttons[b].pressed = true
	tr.Step()
	tr.buttons[b].pressed = false
	tr.Step()
}

// touchPress is press while the logo pad is held
func (tr *testRobot) touchPress(b Button) {
	tr.logo.touched = true
	tr.press(b)
	tr.logo.touched = false
}

func (tr *testRobot) openPage(t *testing.T, target codebot.MenuPage) {
	t.Helper()
	tr.touchPress(ButtonEnter)
	for tr.Menu() != target {
		tr.press(ButtonEnter)
	}
}

func (tr *testRobot) resetServos() {
	tr.left.pulses = nil
	tr.right.pulses = nil
}

func TestStartReportsBattery(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	assert.Equal(t, []string{"0x1 3.83"}, tr.radio.sent)
	assert.Equal(t, uint8(102), tr.sound.volume)
	assert.InDelta(t, 3.83, tr.Volts(), 0.01)
	// matrix is off while the battery pin is read
	assert.Equal(t, []string{"off", "on"}, tr.display.calls)
}

func TestRecordAndPlayInOrder(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	for _, b := range []Button{ButtonForward, ButtonLeft, ButtonReverse, ButtonRight} {
		tr.press(b)
	}

	expected := codebot.Program{
		codebot.MotionForward,
		codebot.MotionPivotLeft,
		codebot.MotionReverse,
		codebot.MotionPivotRight,
	}
	require.Equal(t, expected, tr.Program())
	assert.Equal(t, []Melody{MelodyBaDing, MelodyBaDing, MelodyBaDing, MelodyBaDing}, tr.sound.played)
	assert.Empty(t, tr.left.pulses)

	tr.display.reset()
	tr.press(ButtonPlay)

	assert.Empty(t, tr.Program())
	assert.Equal(t, []string{"0x1 PLAY forward left reverse right"}, tr.radio.events())
	assert.Equal(t, []int16{2000, 0, 1000, 0, 1000, 0, 2000, 0}, tr.left.pulses)
	assert.Equal(t, []int16{1000, 0, 1000, 0, 2000, 0, 2000, 0}, tr.right.pulses)
	assert.Contains(t, tr.display.calls, "scroll:Go")
	assert.Equal(t,
		[]string{"icon:ArrowN", "icon:ArrowW", "icon:ArrowS", "icon:ArrowE"},
		tr.display.with("icon:Arrow"),
	)
}

func TestHeldButtonRecordsOnce(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	tr.buttons[ButtonForward].pressed = true
	for i := 0; i < 10; i++ {
		tr.Step()
	}
	tr.buttons[ButtonForward].pressed = false
	tr.Step()

	assert.Equal(t, codebot.Program{codebot.MotionForward}, tr.Program())
}

func TestPlayAppliesCompensation(t *testing.T) {
	s := settings.Defaults()
	s.LeftCompensation = 0.03
	s.RightCompensation = 0.1
	tr := newTestRobot(t, &memStore{s: s})

	tr.press(ButtonForward)
	tr.press(ButtonReverse)
	tr.press(ButtonPlay)

	assert.Equal(t, []int16{1970, 0, 1030, 0}, tr.left.pulses)
	assert.Equal(t, []int16{1100, 0, 1900, 0}, tr.right.pulses)
}

func TestPlayEmptyProgram(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	tr.press(ButtonPlay)

	assert.Equal(t, []string{"0x1 PLAY"}, tr.radio.events())
	assert.True(t, tr.display.has("icon:Square"))
	assert.Empty(t, tr.left.pulses)
}

func TestTestNeverDrives(t *testing.T) {
	s := settings.Defaults()
	s.Language = codebot.LanguageSpanish
	tr := newTestRobot(t, &memStore{s: s})

	tr.press(ButtonForward)
	tr.press(ButtonRight)
	tr.display.reset()
	tr.press(ButtonEnter)

	assert.Empty(t, tr.left.pulses)
	assert.Empty(t, tr.right.pulses)
	assert.Equal(t, []string{"0x1 TEST forward right"}, tr.radio.events())
	assert.Contains(t, tr.display.calls, "scroll:Probar")
	assert.Equal(t, []string{"icon:ArrowN", "icon:ArrowE"}, tr.display.with("icon:Arrow"))

	// the program is kept for a later play
	assert.Equal(t, codebot.Program{codebot.MotionForward, codebot.MotionPivotRight}, tr.Program())
}

func TestStopClearsProgram(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	tr.press(ButtonForward)
	tr.press(ButtonForward)
	tr.press(ButtonStop)

	assert.Empty(t, tr.Program())
	assert.Contains(t, tr.sound.played, MelodyJumpDown)
	assert.True(t, tr.display.has("icon:Target"))
	// servos are stopped, never driven
	assert.Equal(t, []int16{0}, tr.left.pulses)
}

func TestMenuNavigation(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	tr.touchPress(ButtonEnter)
	require.Equal(t, codebot.MenuLanguage, tr.Menu())
	assert.True(t, tr.display.has("icon:StickFigure"))
	assert.Empty(t, tr.radio.events())

	tests := []struct {
		page    codebot.MenuPage
		display string
	}{
		{codebot.MenuBalance, "text:M"},
		{codebot.MenuDrive, "text:D"},
		{codebot.MenuTurn, "text:T"},
		{codebot.MenuVolume, "icon:MusicQuavers"},
		{codebot.MenuDataLog, "icon:DataLog"},
		{codebot.MenuLanguage, "icon:StickFigure"},
	}

	for _, tt := range tests {
		t.Run(tt.page.String(), func(t *testing.T) {
			tr.display.reset()
			tr.press(ButtonEnter)
			assert.Equal(t, tt.page, tr.Menu())
			assert.True(t, tr.display.has(tt.display))
		})
	}

	// direction buttons edit instead of recording while in the menu
	tr.press(ButtonForward)
	assert.Empty(t, tr.Program())
}

func TestLanguagePage(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.openPage(t, codebot.MenuLanguage)

	tr.press(ButtonReverse)
	assert.Equal(t, codebot.LanguageSpanish, tr.Settings().Language)
	assert.True(t, tr.display.has("scroll:ESP"))

	tr.press(ButtonForward)
	assert.Equal(t, codebot.LanguageEnglish, tr.Settings().Language)
	assert.True(t, tr.display.has("scroll:ENG"))
}

func TestBalancePageCeiling(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.openPage(t, codebot.MenuBalance)

	tr.press(ButtonLeft)
	assert.Equal(t, "scroll:98%", tr.display.with("scroll:")[0])

	for i := 0; i < 60; i++ {
		tr.press(ButtonRight)
		assert.Less(t, tr.Settings().RightCompensation, settings.CompensationCeiling)
	}

	assert.InDelta(t, 0.49, tr.Settings().RightCompensation, 1e-6)
	assert.InDelta(t, 0.01, tr.Settings().LeftCompensation, 1e-6)
	assert.Equal(t, "scroll:Max", tr.display.lastWith("scroll:"))
}

func TestTimePagesFloor(t *testing.T) {
	s := settings.Defaults()
	s.DriveTime = 120
	s.TurnTime = 15
	tr := newTestRobot(t, &memStore{s: s})

	tr.openPage(t, codebot.MenuDrive)
	for i := 0; i < 5; i++ {
		tr.press(ButtonReverse)
		assert.GreaterOrEqual(t, tr.Settings().DriveTime, int32(0))
	}
	assert.Equal(t, int32(0), tr.Settings().DriveTime)
	assert.Equal(t, "text:0", tr.display.with("text:0")[0])

	tr.press(ButtonForward)
	assert.Equal(t, int32(50), tr.Settings().DriveTime)
	assert.True(t, tr.display.has("scroll:50"))

	tr.press(ButtonEnter)
	require.Equal(t, codebot.MenuTurn, tr.Menu())
	for i := 0; i < 3; i++ {
		tr.press(ButtonReverse)
	}
	assert.Equal(t, int32(0), tr.Settings().TurnTime)
}

func TestVolumePage(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.openPage(t, codebot.MenuVolume)

	tr.press(ButtonForward)
	assert.Equal(t, uint8(153), tr.Settings().Volume)
	assert.Equal(t, uint8(153), tr.sound.volume)

	for i := 0; i < 4; i++ {
		tr.press(ButtonForward)
	}
	assert.Equal(t, uint8(255), tr.sound.volume)
	assert.Equal(t, "scroll:Max", tr.display.lastWith("scroll:"))

	for i := 0; i < 6; i++ {
		tr.press(ButtonReverse)
	}
	assert.Equal(t, uint8(0), tr.Settings().Volume)
	assert.Equal(t, uint8(0), tr.sound.volume)
	assert.Equal(t, "scroll:Mute", tr.display.lastWith("scroll:"))
}

func TestStoreSurvivesRestart(t *testing.T) {
	store := settings.NewFileStore(t.TempDir())
	tr := newTestRobot(t, store)

	tr.press(ButtonForward)

	tr.openPage(t, codebot.MenuLanguage)
	tr.press(ButtonReverse)
	tr.press(ButtonEnter)
	tr.press(ButtonRight)
	tr.press(ButtonEnter)
	tr.press(ButtonForward)
	tr.press(ButtonEnter)
	tr.press(ButtonReverse)

	edited := tr.Settings()
	tr.press(ButtonPlay)

	assert.Equal(t, codebot.MenuNone, tr.Menu())
	assert.Empty(t, tr.Program())
	assert.True(t, tr.display.has("icon:Yes"))

	restarted := newTestRobot(t, store)
	assert.Equal(t, edited, restarted.Settings())

	expected := settings.Settings{
		RightCompensation: 0.01,
		DriveTime:         1300,
		TurnTime:          660,
		Language:          codebot.LanguageSpanish,
		Volume:            102,
	}
	assert.Equal(t, expected, restarted.Settings())
}

func TestResetRestoresDefaults(t *testing.T) {
	store := &memStore{s: settings.Settings{
		LeftCompensation:  0.2,
		RightCompensation: 0.3,
		DriveTime:         50,
		TurnTime:          900,
		Language:          codebot.LanguageSpanish,
		Volume:            0,
	}}
	tr := newTestRobot(t, store)
	require.Equal(t, uint8(0), tr.sound.volume)

	tr.openPage(t, codebot.MenuTurn)
	tr.press(ButtonStop)

	assert.Equal(t, codebot.MenuNone, tr.Menu())
	assert.Equal(t, settings.Defaults(), tr.Settings())
	assert.Equal(t, settings.Defaults(), store.s)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, uint8(102), tr.sound.volume)
}

func TestLoadErrorUsesDefaults(t *testing.T) {
	tr := newTestRobot(t, &memStore{loadErr: errors.New("bad record")})

	assert.Equal(t, settings.Defaults(), tr.Settings())
	assert.Equal(t, uint8(102), tr.sound.volume)
}

func TestDataLogPage(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.openPage(t, codebot.MenuDataLog)

	before := len(tr.radio.sent)
	tr.display.reset()
	tr.press(ButtonForward)

	assert.Greater(t, len(tr.radio.sent), before)
	assert.Equal(t, []string{"icon:DataLog", "icon:No", "icon:DataLog", "icon:No"}, tr.display.with("icon:"))
}

func TestLogoDemo(t *testing.T) {
	cfg := DefaultConfig()
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.press(ButtonReverse)
	tr.resetServos()

	tr.touchPress(ButtonPlay)

	assert.Equal(t, []string{"0x1 PLAY reverse"}, tr.radio.events())
	assert.Equal(t, []int16{1000, 2000, 1000, 2000, 0}, tr.left.pulses)
	assert.Equal(t, []int16{2000, 1000, 1000, 2000, 0}, tr.right.pulses)
	assert.Contains(t, tr.sound.played, MelodyPython)
	assert.Equal(t, 1, tr.sound.stopped)
	assert.True(t, tr.display.has("icon:Demo"))

	segments := 0
	for _, d := range tr.clock.sleeps {
		if d == cfg.DemoSegment {
			segments++
		}
	}
	assert.Equal(t, 4, segments)
	assert.Equal(t, codebot.Program{codebot.MotionReverse}, tr.Program())
}

func TestBatteryInterval(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})
	tr.adc.raw = 30000

	start := tr.clock.Now()
	for tr.clock.Now().Sub(start) < 5*time.Second {
		tr.Step()
	}
	tr.Step()

	require.Len(t, tr.radio.sent, 2)
	assert.Equal(t, "0x1 3.02", tr.radio.sent[1])
	assert.Equal(t, "icon:Sad", tr.display.lastWith("icon:"))
}

func TestBatteryIcon(t *testing.T) {
	tests := []struct {
		volts    float32
		expected Icon
	}{
		{4.2, IconHappy},
		{3.6, IconHappy},
		{3.59, IconAsleep},
		{3.3, IconAsleep},
		{3.29, IconSad},
		{0, IconSad},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, BatteryIcon(tt.volts))
		})
	}
}

func TestBatteryVolts(t *testing.T) {
	assert.InDelta(t, 3.3, BatteryVolts(32768), 0.001)
	assert.InDelta(t, 0, BatteryVolts(0), 0.001)
}

func TestRunStopsOnCancel(t *testing.T) {
	tr := newTestRobot(t, &memStore{s: settings.Defaults()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Run(ctx), context.Canceled)
}

func TestIconImage(t *testing.T) {
	img := IconArrowN.Image()
	assert.Equal(t, [5]uint8{0, 0, 9, 0, 0}, img[0])
	assert.Equal(t, [5]uint8{9, 0, 9, 0, 9}, img[2])
	assert.Equal(t, Image{}, IconNone.Image())
}

func TestParseButton(t *testing.T) {
	b, ok := ParseButton("enter")
	assert.True(t, ok)
	assert.Equal(t, ButtonEnter, b)

	_, ok = ParseButton("jump")
	assert.False(t, ok)
}

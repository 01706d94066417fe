package robot

import (
	"time"

	"github.com/calvinmclean/codebot"
)

const (
	shortPause = 20 * time.Millisecond
	pagePause  = 50 * time.Millisecond
	flashIcon  = 500 * time.Millisecond
	confirmed  = time.Second
)

// record appends a motion to the program
func (r *Robot) record(m codebot.Motion) {
	r.program = append(r.program, m)
	if r.verbose {
		println(r.ts(), "record", m.String())
	}
	r.board.Sound.Play(MelodyBaDing)
}

// clearProgram empties the program and stops the servos
func (r *Robot) clearProgram() {
	r.board.Sound.Play(MelodyJumpDown)
	r.drive.Stop()
	r.board.Clock.Sleep(pagePause)
	r.program = nil
	r.board.Display.ShowIcon(IconTarget)
	r.board.Clock.Sleep(flashIcon)
	r.board.Display.Clear()
}

// play reports the program and runs it on the servos. The program is empty afterwards
func (r *Robot) play() {
	r.board.Clock.Sleep(shortPause)
	r.sampleBattery()
	r.board.Sound.Play(MelodyJumpUp)

	if len(r.program) == 0 {
		r.sendButton(codebot.EventPlay)
		r.flash(IconSquare)
		return
	}

	r.sendButton(codebot.EventPlay)
	r.board.Display.Scroll(r.settings.Language.Pick("Go", "Ir"))

	for i := 0; i < len(r.program); i++ {
		r.board.Sound.Play(MelodySpring)
		r.drive.Do(r.program[i])
	}

	r.program = nil
	r.board.Clock.Sleep(shortPause)
	r.board.Display.Clear()
}

// test reports the program and previews it with arrows only. The servos are left alone and
// the program is kept
func (r *Robot) test() {
	r.board.Clock.Sleep(shortPause)
	r.board.Sound.Play(MelodyBaDing)
	r.board.Clock.Sleep(pagePause)

	if len(r.program) == 0 {
		r.sendButton(codebot.EventTest)
		r.flash(IconSquare)
		return
	}

	r.sendButton(codebot.EventTest)
	r.board.Display.Scroll(r.settings.Language.Pick("Test", "Probar"))
	r.board.Clock.Sleep(flashIcon)

	for _, m := range r.program {
		r.board.Display.ShowIcon(arrowIcon(m))
		r.board.Clock.Sleep(r.cfg.TestStep)
		r.board.Display.Clear()
		r.board.Clock.Sleep(pagePause)
	}

	r.board.Clock.Sleep(shortPause)
	r.board.Display.Clear()
}

// demo is the logo + play gesture: it reports a PLAY event and then runs a fixed routine of
// raw servo pulses, ignoring calibration
func (r *Robot) demo() {
	r.board.Clock.Sleep(shortPause)
	r.sendButton(codebot.EventPlay)

	r.board.Sound.Play(MelodyPython)
	for i := 0; i < 4; i++ {
		r.board.Display.ShowIcon(IconArrowS)
		r.board.Clock.Sleep(flashIcon)
		if i < 3 {
			r.board.Display.Clear()
			r.board.Clock.Sleep(flashIcon)
		}
	}
	r.board.Display.ShowIcon(IconDemo)

	legs := [][2]float32{
		{pulseLow, pulseHigh},
		{pulseHigh, pulseLow},
		{pulseLow, pulseLow},
		{pulseHigh, pulseHigh},
	}
	for _, leg := range legs {
		r.drive.SetPulseWidths(leg[0], leg[1])
		r.board.Clock.Sleep(r.cfg.DemoSegment)
	}

	r.board.Sound.Stop()
	r.drive.Stop()
}

// sendButton reports the event with the current program. Failures only matter for debugging
func (r *Robot) sendButton(event string) {
	err := r.sender.SendButton(event, r.program)
	if err != nil && r.verbose {
		println(r.ts(), "error sending", event, "event:", err.Error())
	}
}

// flash shows an icon briefly
func (r *Robot) flash(icon Icon) {
	r.board.Display.ShowIcon(icon)
	r.board.Clock.Sleep(flashIcon)
	r.board.Display.Clear()
}

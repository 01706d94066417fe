package robot

import (
	"strconv"
	"time"

	"github.com/calvinmclean/codebot"
	"github.com/calvinmclean/codebot/settings"
)

// action handles a button press on a page
type action func(r *Robot)

// page is one state of the menu: what it shows on entry and what each button does while it
// is active. Buttons without an action are ignored
type page struct {
	show func(r *Robot)
	on   map[Button]action
}

// newMenu builds the state table. MenuNone records and plays programs, every other page
// edits one group of settings and shares the store, reset and next-page transitions
func newMenu() map[codebot.MenuPage]page {
	return map[codebot.MenuPage]page{
		codebot.MenuNone: {
			on: map[Button]action{
				ButtonStop:    (*Robot).clearProgram,
				ButtonForward: recordAction(codebot.MotionForward),
				ButtonReverse: recordAction(codebot.MotionReverse),
				ButtonLeft:    recordAction(codebot.MotionPivotLeft),
				ButtonRight:   recordAction(codebot.MotionPivotRight),
				ButtonPlay: func(r *Robot) {
					if r.touched {
						r.demo()
						return
					}
					r.play()
				},
				ButtonEnter: func(r *Robot) {
					if r.touched {
						r.openMenu()
						return
					}
					r.test()
				},
			},
		},
		codebot.MenuLanguage: calibrationPage(showIcon(IconStickFigure), map[Button]action{
			ButtonForward: languageAction(codebot.LanguageEnglish),
			ButtonReverse: languageAction(codebot.LanguageSpanish),
		}),
		codebot.MenuBalance: calibrationPage(showText("M"), map[Button]action{
			ButtonLeft: func(r *Robot) {
				r.showBalance(r.settings.IncreaseLeftCompensation(), r.settings.LeftCompensation)
			},
			ButtonRight: func(r *Robot) {
				r.showBalance(r.settings.IncreaseRightCompensation(), r.settings.RightCompensation)
			},
		}),
		codebot.MenuDrive: calibrationPage(showText("D"), map[Button]action{
			ButtonForward: func(r *Robot) {
				r.settings.IncreaseDriveTime()
				r.showTime(true, r.settings.DriveTime)
			},
			ButtonReverse: func(r *Robot) {
				r.showTime(r.settings.DecreaseDriveTime(), r.settings.DriveTime)
			},
		}),
		codebot.MenuTurn: calibrationPage(showText("T"), map[Button]action{
			ButtonForward: func(r *Robot) {
				r.settings.IncreaseTurnTime()
				r.showTime(true, r.settings.TurnTime)
			},
			ButtonReverse: func(r *Robot) {
				r.showTime(r.settings.DecreaseTurnTime(), r.settings.TurnTime)
			},
		}),
		codebot.MenuVolume: calibrationPage(showIcon(IconMusicQuavers), map[Button]action{
			ButtonForward: func(r *Robot) {
				r.showVolume(r.settings.IncreaseVolume(), IconArrowN, "Max", "Max")
			},
			ButtonReverse: func(r *Robot) {
				r.showVolume(r.settings.DecreaseVolume(), IconArrowS, "Mute", "Mudo")
			},
		}),
		codebot.MenuDataLog: calibrationPage(showIcon(IconDataLog), map[Button]action{
			ButtonForward: (*Robot).clearDataLog,
		}),
	}
}

// calibrationPage adds the transitions every calibration page shares
func calibrationPage(show func(r *Robot), edits map[Button]action) page {
	edits[ButtonPlay] = (*Robot).storeSettings
	edits[ButtonStop] = (*Robot).resetSettings
	edits[ButtonEnter] = (*Robot).nextPage
	return page{show: show, on: edits}
}

func showIcon(icon Icon) func(r *Robot) {
	return func(r *Robot) { r.board.Display.ShowIcon(icon) }
}

func showText(text string) func(r *Robot) {
	return func(r *Robot) { r.board.Display.ShowText(text) }
}

func recordAction(m codebot.Motion) action {
	return func(r *Robot) { r.record(m) }
}

func languageAction(l codebot.Language) action {
	return func(r *Robot) {
		r.settings.Language = l
		r.board.Display.Scroll(l.String())
		r.board.Clock.Sleep(pagePause)
	}
}

// openMenu enters the first calibration page from normal operation
func (r *Robot) openMenu() {
	r.board.Sound.Play(MelodyBaDing)
	r.goTo(codebot.MenuLanguage)
}

// nextPage advances through the calibration pages, wrapping from the last to the first
func (r *Robot) nextPage() {
	r.goTo(r.menu.Next())
}

func (r *Robot) goTo(next codebot.MenuPage) {
	r.drive.Stop()
	if p, ok := r.pages[next]; ok && p.show != nil {
		p.show(r)
	}
	r.board.Clock.Sleep(pagePause)
	r.menu = next

	if r.verbose {
		println(r.ts(), "menu", next.String())
	}
}

// storeSettings persists the settings and goes back to normal operation
func (r *Robot) storeSettings() {
	r.board.Display.Clear()
	r.board.Clock.Sleep(pagePause)
	r.board.Sound.Play(MelodyBaDing)
	r.sampleBattery()

	r.save()
	r.program = nil
	r.menu = codebot.MenuNone

	r.board.Display.ShowIcon(IconYes)
	r.board.Clock.Sleep(confirmed)
	r.board.Display.Clear()
}

// resetSettings restores and persists the factory settings and goes back to normal operation
func (r *Robot) resetSettings() {
	r.board.Display.Clear()
	r.board.Clock.Sleep(pagePause)
	r.board.Sound.Play(MelodyBaDing)

	r.settings.Reset()
	r.sampleBattery()

	r.save()
	r.program = nil
	r.menu = codebot.MenuNone
	r.board.Sound.SetVolume(r.settings.Volume)

	r.board.Display.ShowIcon(IconTarget)
	r.board.Clock.Sleep(confirmed)
}

func (r *Robot) save() {
	err := r.store.Save(r.settings)
	if err != nil {
		println(r.ts(), "error saving settings:", err.Error())
	}
}

func (r *Robot) showBalance(changed bool, compensation float32) {
	if !changed {
		r.board.Display.Scroll("Max")
		return
	}
	r.board.Display.Scroll(settings.BalanceString(compensation))
	r.board.Clock.Sleep(pagePause)
}

// showTime scrolls the new duration, or shows 0 when the value was already at the floor
func (r *Robot) showTime(changed bool, ms int32) {
	if !changed {
		r.board.Display.ShowText("0")
		return
	}
	r.board.Display.Scroll(strconv.Itoa(int(ms)))
	r.board.Clock.Sleep(pagePause)
}

// showVolume applies a volume change right away
func (r *Robot) showVolume(changed bool, arrow Icon, english, spanish string) {
	if !changed {
		r.board.Display.Scroll(r.settings.Language.Pick(english, spanish))
		return
	}
	r.board.Sound.SetVolume(r.settings.Volume)
	r.board.Sound.Play(MelodyBaDing)
	r.board.Display.ShowIcon(arrow)
	r.board.Clock.Sleep(pagePause)
}

// clearDataLog samples the battery and blinks the data log page. There is no durable log on
// the robot, the monitor keeps the history
func (r *Robot) clearDataLog() {
	r.sampleBattery()
	for i, icon := range []Icon{IconDataLog, IconNo, IconDataLog, IconNo} {
		r.board.Display.ShowIcon(icon)
		if i < 3 {
			r.board.Clock.Sleep(300 * time.Millisecond)
		}
	}
	r.board.Clock.Sleep(pagePause)
}

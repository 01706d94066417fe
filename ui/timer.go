package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

type timer struct {
	showMillis bool
	startTime  time.Time
	mtx        *sync.Mutex
	text       *canvas.Text
}

func newTimer(showMillis bool) *timer {
	return &timer{
		showMillis: showMillis,
		startTime:  time.Time{},
		mtx:        &sync.Mutex{},
		text:       canvas.NewText(formatElapsed(0, showMillis), nil),
	}
}

// Set restarts the timer from start
func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.mtx.Unlock()
}

// SetOnce starts the timer unless it is already running
func (t *timer) SetOnce(start time.Time) {
	t.mtx.Lock()
	if t.startTime.IsZero() {
		t.startTime = start
	}
	t.mtx.Unlock()
}

// Go refreshes the text until the context is done. It shows zero until the timer is set
func (t *timer) Go(ctx context.Context) {
	d := time.Second
	if t.showMillis {
		d = 64 * time.Millisecond
	}

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			t.mtx.Lock()
			var elapsed time.Duration
			if !t.startTime.IsZero() {
				elapsed = time.Since(t.startTime)
			}
			t.mtx.Unlock()

			fyne.Do(func() {
				t.text.Text = formatElapsed(elapsed, t.showMillis)
				t.text.Refresh()
			})
		}
	}()
}

func formatElapsed(elapsed time.Duration, showMillis bool) string {
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	if showMillis {
		millis := int(elapsed.Milliseconds()) % 1000
		return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

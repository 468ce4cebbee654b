package core

import (
	"github.com/gotk3/gotk3/glib"
)

// GTKScheduler runs functions as single turns of the GTK main loop.
// Invoke blocks the calling goroutine until the turn completes, which
// is what serializes each hotkey binding's triggers.
type GTKScheduler struct{}

func NewGTKScheduler() *GTKScheduler {
	return &GTKScheduler{}
}

func (s *GTKScheduler) Invoke(fn func()) {
	done := make(chan struct{})
	glib.IdleAdd(func() {
		defer close(done)
		fn()
	})
	<-done
}

package visibility

import (
	"log"

	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
)

var focusLogger = log.New(log.Writer(), "[FOCUS] ", log.LstdFlags|log.Lmicroseconds)

// FocusWatcher samples OS foreground focus once per UI tick and turns
// a true→false edge into a dismiss. Sustained loss and regained focus
// are ignored; only the transition acts.
type FocusWatcher struct {
	surfaces    platform.SurfaceControl
	coordinator *Coordinator
	view        PromptView

	lastActive bool
	sampled    bool
}

// NewFocusWatcher builds a watcher; call Tick from the UI loop timer.
func NewFocusWatcher(surfaces platform.SurfaceControl, coordinator *Coordinator, view PromptView) *FocusWatcher {
	return &FocusWatcher{
		surfaces:    surfaces,
		coordinator: coordinator,
		view:        view,
	}
}

// Tick runs one sample. It must run on the UI scheduling thread, like
// every coordinator entry point.
func (w *FocusWatcher) Tick() {
	active, err := w.surfaces.ForegroundActive()
	if err != nil {
		// A failed sample is no evidence of a focus change; keep
		// the previous edge state and try again next tick.
		focusLogger.Printf("foreground query failed: %v", err)
		return
	}

	prev := w.lastActive
	seeded := w.sampled
	w.lastActive = active
	w.sampled = true

	if !seeded || !prev || active {
		return
	}

	// true→false edge. The dismissable predicate is re-read fresh
	// each tick; the view can change between ticks.
	if w.coordinator.State().PrimaryVisible() {
		w.coordinator.OnFocusLoss(w.view.Dismissable())
	}
}

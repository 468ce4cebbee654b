package visibility

import (
	"errors"
	"testing"
)

func newWatcherFixture() (*FocusWatcher, *fixture) {
	f := newFixture()
	w := NewFocusWatcher(f.control, f.coordinator, f.view)
	return w, f
}

func TestWatcherDismissesOnTrueToFalseEdge(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	f.control.foreground = true
	w.Tick()
	f.control.foreground = false
	w.Tick()

	if f.state.PrimaryVisible() {
		t.Error("expected primary dismissed on foreground loss edge")
	}
	f.checkInvariant(t)
}

func TestWatcherIgnoresSustainedLoss(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	f.control.foreground = true
	w.Tick()
	f.control.foreground = false
	w.Tick()

	// Primary comes back while the process is still background.
	f.coordinator.OnPrimaryToggle()
	w.Tick()
	w.Tick()

	if !f.state.PrimaryVisible() {
		t.Error("sustained false must not dismiss again; only the edge acts")
	}
	f.checkInvariant(t)
}

func TestWatcherIgnoresFalseToTrueEdge(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	f.control.foreground = false
	w.Tick()
	f.control.foreground = true
	w.Tick()

	if !f.state.PrimaryVisible() {
		t.Error("regaining focus must never dismiss")
	}
	f.checkInvariant(t)
}

func TestWatcherFirstSampleIsNotAnEdge(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	// First ever sample is false; with no prior sample there is no
	// true→false transition to act on.
	f.control.foreground = false
	w.Tick()

	if !f.state.PrimaryVisible() {
		t.Error("the first sample must only seed the edge detector")
	}
	f.checkInvariant(t)
}

func TestWatcherReadsDismissablePredicateFresh(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	// View becomes non-dismissable between ticks.
	f.control.foreground = true
	w.Tick()
	f.view.dismissable = false
	f.control.foreground = false
	w.Tick()

	if !f.state.PrimaryVisible() {
		t.Error("the dismissable predicate must be re-evaluated each tick")
	}

	// Back to dismissable; needs a fresh true→false edge to act.
	f.view.dismissable = true
	f.control.foreground = true
	w.Tick()
	f.control.foreground = false
	w.Tick()

	if f.state.PrimaryVisible() {
		t.Error("expected dismissal on the next genuine edge")
	}
	f.checkInvariant(t)
}

func TestWatcherKeepsEdgeStateOnQueryFailure(t *testing.T) {
	w, f := newWatcherFixture()
	f.coordinator.OnPrimaryToggle()

	f.control.foreground = true
	w.Tick()

	// A failed sample proves nothing about focus; the next good
	// sample must still see the earlier true.
	f.control.foregroundErr = errors.New("sway socket gone")
	w.Tick()
	f.control.foregroundErr = nil
	f.control.foreground = false
	w.Tick()

	if f.state.PrimaryVisible() {
		t.Error("edge state must survive a failed sample")
	}
	f.checkInvariant(t)
}

func TestWatcherDoesNothingWhilePrimaryHidden(t *testing.T) {
	w, f := newWatcherFixture()

	f.control.foreground = true
	w.Tick()
	f.control.foreground = false
	w.Tick()

	if len(f.control.calls) != 0 {
		t.Errorf("focus edges with the primary hidden must be no-ops, got calls %v", f.control.calls)
	}
	f.checkInvariant(t)
}

package visibility

import (
	"errors"
	"fmt"
	"log"

	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
)

var visLogger = log.New(log.Writer(), "[VISIBILITY] ", log.LstdFlags|log.Lmicroseconds)

var (
	ErrUnknownSecondaryKind = errors.New("no builder for secondary kind")
)

// PromptView is what the coordinator needs from the primary surface's
// content: enough to abandon whatever it was doing before a hide.
type PromptView interface {
	// InPrompt reports whether the default search prompt is showing.
	InPrompt() bool
	// CancelForegroundTask synchronously cancels any in-flight task
	// bound to the primary surface.
	CancelForegroundTask()
	// ResetToDefaultView returns the surface to the empty prompt.
	ResetToDefaultView()
	// Dismissable reports whether the current view should be
	// abandoned automatically when the process loses OS focus.
	Dismissable() bool
}

// SecondaryFactory creates and shows a secondary surface. Content per
// kind lives behind this interface; the coordinator never branches on
// the kind itself.
type SecondaryFactory interface {
	Create(kind SecondaryKind) (Secondary, error)
}

// Notifier delivers transient, user-visible failure notices.
type Notifier interface {
	Notify(summary, body string)
}

// Coordinator owns every show/hide decision for every surface. All
// four entry points run on the UI scheduling thread and share one
// hide subroutine, so there is exactly one place that decides which
// hide primitive applies.
type Coordinator struct {
	state       *State
	surfaces    platform.SurfaceControl
	primary     platform.SurfaceHandle
	view        PromptView
	secondaries SecondaryFactory
	notifier    Notifier
}

// NewCoordinator wires the coordinator to its collaborators. The state
// object passed in must not be mutated by anyone else afterwards.
func NewCoordinator(
	state *State,
	surfaces platform.SurfaceControl,
	primary platform.SurfaceHandle,
	view PromptView,
	secondaries SecondaryFactory,
	notifier Notifier,
) *Coordinator {
	return &Coordinator{
		state:       state,
		surfaces:    surfaces,
		primary:     primary,
		view:        view,
		secondaries: secondaries,
		notifier:    notifier,
	}
}

// State exposes the coordinator's state for read-only inspection.
func (c *Coordinator) State() *State { return c.state }

// hidePrimaryRespectingSecondaries is the single shared hide decision.
// With a secondary open only the primary surface may disappear; with
// nothing else open the whole process drops its foreground presence.
func (c *Coordinator) hidePrimaryRespectingSecondaries() {
	c.state.primaryVisible = false

	if c.state.AnySecondaryOpen() {
		if err := c.surfaces.SurfaceHide(c.primary); err != nil {
			c.report("Hide failed", fmt.Sprintf("could not hide command window: %v", err))
		}
		return
	}
	if err := c.surfaces.GlobalHide(); err != nil {
		c.report("Hide failed", fmt.Sprintf("could not hide windows: %v", err))
	}
}

// dismissPrimary is the shared visible→hidden branch: abandon whatever
// the surface was doing, then hide it through the one shared decision.
func (c *Coordinator) dismissPrimary() {
	c.view.CancelForegroundTask()
	c.view.ResetToDefaultView()
	c.hidePrimaryRespectingSecondaries()
}

// OnPrimaryToggle handles the primary hotkey.
func (c *Coordinator) OnPrimaryToggle() {
	if c.state.primaryVisible {
		visLogger.Printf("toggle: hiding primary (secondaries open: %v)", c.state.OpenKinds())
		c.dismissPrimary()
		return
	}

	visLogger.Printf("toggle: showing primary")
	c.state.primaryVisible = true

	bounds, err := c.surfaces.ComputePlacement()
	if err != nil {
		// Show anyway at the surface's last geometry; a launcher
		// that fails to appear is worse than one slightly off.
		visLogger.Printf("placement failed, using last geometry: %v", err)
	}
	if err := c.surfaces.ShowAndActivate(c.primary, bounds); err != nil {
		c.state.primaryVisible = false
		c.report("Show failed", fmt.Sprintf("could not show command window: %v", err))
		return
	}
	// Unconditional: a secondary surface may already hold OS focus,
	// and the primary must still come up on top of it.
	if err := c.surfaces.GlobalActivate(); err != nil {
		visLogger.Printf("global activate failed: %v", err)
	}
}

// OnOpenSecondary handles a secondary-kind hotkey. Open surfaces of
// that kind close; closed (or stale) ones open. Closing is strictly
// local: it never touches the primary flag and never hides globally.
func (c *Coordinator) OnOpenSecondary(kind SecondaryKind) {
	if sec := c.state.secondary(kind); sec != nil {
		if sec.Handle().Valid() {
			visLogger.Printf("closing secondary %q", kind)
			sec.Destroy()
			c.state.clearSecondary(kind)
			return
		}
		// Destroyed behind our back, e.g. via window chrome.
		// Treated exactly like "not open"; the user asked for the
		// surface, so fall through and recreate it.
		visLogger.Printf("stale handle for secondary %q, recreating", kind)
		c.state.clearSecondary(kind)
	}

	if c.state.primaryVisible {
		if err := c.surfaces.SurfaceHide(c.primary); err != nil {
			c.report("Hide failed", fmt.Sprintf("could not hide command window: %v", err))
		}
		c.state.primaryVisible = false
	}

	sec, err := c.secondaries.Create(kind)
	if err != nil {
		c.report("Window failed", fmt.Sprintf("could not open %s window: %v", kind, err))
		return
	}
	c.state.setSecondary(kind, sec)
	visLogger.Printf("opened secondary %q", kind)
}

// OnFocusLoss handles a genuine foreground loss edge reported by the
// focus watcher. Opening one of our own surfaces never lands here; the
// process keeps OS focus when focus moves between its own windows.
func (c *Coordinator) OnFocusLoss(dismissable bool) {
	if !c.state.primaryVisible || !dismissable {
		return
	}
	visLogger.Printf("focus lost, dismissing primary")
	c.dismissPrimary()
}

// OnExplicitClose handles a user close gesture on the primary surface
// (Escape, close button, command executed). The trigger is carried for
// diagnostics only; the behavior is the one shared hide branch.
func (c *Coordinator) OnExplicitClose(trigger string) {
	if !c.state.primaryVisible {
		return
	}
	visLogger.Printf("explicit close (%s)", trigger)
	c.dismissPrimary()
}

func (c *Coordinator) report(summary, body string) {
	visLogger.Printf("%s: %s", summary, body)
	if c.notifier != nil {
		c.notifier.Notify(summary, body)
	}
}

package platform

import (
	"sync/atomic"

	"github.com/gotk3/gotk3/gtk"
)

// WindowHandle is the GTK-backed SurfaceHandle. It turns invalid when
// the underlying window is destroyed, including destruction paths this
// package never sees (native chrome, compositor kill).
type WindowHandle struct {
	id        string
	win       *gtk.Window
	destroyed atomic.Bool
}

// NewWindowHandle wraps a GTK window. The destroy signal marks the
// handle invalid so stale handles are indistinguishable from closed
// surfaces.
func NewWindowHandle(id string, win *gtk.Window) *WindowHandle {
	h := &WindowHandle{id: id, win: win}
	win.Connect("destroy", func() {
		h.destroyed.Store(true)
	})
	return h
}

func (h *WindowHandle) ID() string { return h.id }

func (h *WindowHandle) Valid() bool {
	return h.win != nil && !h.destroyed.Load()
}

// Window returns the underlying GTK window, or nil if the handle is
// no longer valid.
func (h *WindowHandle) Window() *gtk.Window {
	if !h.Valid() {
		return nil
	}
	return h.win
}

// Destroy tears the window down. Safe to call on an already-invalid
// handle.
func (h *WindowHandle) Destroy() {
	if h.Valid() {
		h.win.Destroy()
	}
	h.destroyed.Store(true)
}

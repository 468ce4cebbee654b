package platform

// Bounds is a placement rectangle in output-local coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// SurfaceHandle identifies one on-screen surface. A handle can become
// invalid if its surface was destroyed outside this package's control
// (e.g. closed via native window chrome); an invalid handle must be
// treated the same as "not open".
type SurfaceHandle interface {
	ID() string
	Valid() bool
}

// SurfaceControl wraps the OS primitives the visibility subsystem needs.
// The real implementation talks to GTK and sway; tests substitute a fake.
type SurfaceControl interface {
	// GlobalHide removes the whole process's foreground presence,
	// hiding every tracked surface at once.
	GlobalHide() error

	// SurfaceHide hides one surface without touching the process's
	// activation state or any other surface.
	SurfaceHide(h SurfaceHandle) error

	// ShowAndActivate shows the surface at the given bounds and gives
	// it keyboard focus.
	ShowAndActivate(h SurfaceHandle, b Bounds) error

	// GlobalActivate raises the process's surfaces above overlapping
	// windows and claims OS input focus.
	GlobalActivate() error

	// ForegroundActive reports whether this process currently holds OS
	// input focus, regardless of which of its surfaces has UI focus.
	ForegroundActive() (bool, error)

	// ComputePlacement returns where the primary surface should appear
	// on the display the pointer is on.
	ComputePlacement() (Bounds, error)
}

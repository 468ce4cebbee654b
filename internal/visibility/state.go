package visibility

import (
	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
)

// SecondaryKind names one auxiliary persistent surface ("notes",
// "assistant", ...). The set is open; the coordinator treats every
// kind identically and only content creation ever branches on it.
type SecondaryKind string

const (
	KindNotes     SecondaryKind = "notes"
	KindAssistant SecondaryKind = "assistant"
)

// Secondary is one live auxiliary surface.
type Secondary interface {
	Handle() platform.SurfaceHandle
	// Destroy tears the surface down. Must be safe to call on a
	// surface whose window already died externally.
	Destroy()
}

// State is the process-wide visibility state. Created once at startup
// and mutated exclusively inside Coordinator decision methods, on the
// UI scheduling thread; that single-mutation-point rule is the design,
// not an accident, so nothing else may write these fields.
type State struct {
	primaryVisible bool
	secondaries    map[SecondaryKind]Secondary
}

// NewState returns the initial state: primary hidden, no secondaries.
func NewState() *State {
	return &State{
		secondaries: make(map[SecondaryKind]Secondary),
	}
}

// PrimaryVisible reports whether the primary surface is intended to be
// shown. Outside a transition this equals the true OS visibility of
// the primary surface.
func (s *State) PrimaryVisible() bool { return s.primaryVisible }

// SecondaryOpen reports whether the given kind has a live surface. A
// surface whose handle went stale counts as closed.
func (s *State) SecondaryOpen(kind SecondaryKind) bool {
	sec, ok := s.secondaries[kind]
	return ok && sec != nil && sec.Handle().Valid()
}

// AnySecondaryOpen reports whether any kind has a live surface.
func (s *State) AnySecondaryOpen() bool {
	for kind := range s.secondaries {
		if s.SecondaryOpen(kind) {
			return true
		}
	}
	return false
}

// OpenKinds returns the kinds with live surfaces, for diagnostics.
func (s *State) OpenKinds() []SecondaryKind {
	var kinds []SecondaryKind
	for kind := range s.secondaries {
		if s.SecondaryOpen(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func (s *State) secondary(kind SecondaryKind) Secondary {
	return s.secondaries[kind]
}

func (s *State) setSecondary(kind SecondaryKind, sec Secondary) {
	s.secondaries[kind] = sec
}

func (s *State) clearSecondary(kind SecondaryKind) {
	delete(s.secondaries, kind)
}

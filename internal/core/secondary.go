package core

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/gotk3/gotk3/gtk"

	"github.com/zacjones93/script-kit-next-sub006/internal/config"
	"github.com/zacjones93/script-kit-next-sub006/internal/layer"
	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
	"github.com/zacjones93/script-kit-next-sub006/internal/visibility"
)

var secondaryLogger = log.New(log.Writer(), "[SECONDARY] ", log.LstdFlags)

// contentBuilder fills a secondary window with its kind's content.
// This map is the only place anything branches on the kind.
type contentBuilder func(win *gtk.Window, cfg *config.Config) error

// SecondaryFactory builds the persistent auxiliary surfaces. New kinds
// register a builder; the visibility logic never changes for them.
type SecondaryFactory struct {
	config   *config.Config
	control  *platform.Control
	builders map[visibility.SecondaryKind]contentBuilder
}

func NewSecondaryFactory(cfg *config.Config, control *platform.Control) *SecondaryFactory {
	return &SecondaryFactory{
		config:  cfg,
		control: control,
		builders: map[visibility.SecondaryKind]contentBuilder{
			visibility.KindNotes:     buildNotes,
			visibility.KindAssistant: buildAssistant,
		},
	}
}

// secondarySurface is one live auxiliary window.
type secondarySurface struct {
	handle  *platform.WindowHandle
	control *platform.Control
}

func (s *secondarySurface) Handle() platform.SurfaceHandle { return s.handle }

func (s *secondarySurface) Destroy() {
	s.control.Untrack(s.handle.ID())
	s.handle.Destroy()
}

// Create builds and shows the surface for a kind. The window is
// tracked with the platform control so a global hide reaches it.
func (f *SecondaryFactory) Create(kind visibility.SecondaryKind) (visibility.Secondary, error) {
	builder, ok := f.builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", visibility.ErrUnknownSecondaryKind, kind)
	}

	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s window: %w", kind, err)
	}
	win.SetDecorated(false)
	win.SetSkipTaskbarHint(true)
	win.SetSkipPagerHint(true)
	win.SetName(string(kind) + "-window")
	win.SetDefaultSize(420, 520)

	native := unsafe.Pointer(win.Native())
	layer.InitForWindow(native)
	layer.SetLayer(native, layer.LayerTop)
	layer.SetKeyboardMode(native, layer.KeyboardModeOnDemand)
	layer.SetAnchor(native, layer.EdgeRight, true)
	layer.SetMargin(native, layer.EdgeRight, 24)
	layer.SetExclusiveZone(native, 0)

	if err := builder(win, f.config); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to build %s content: %w", kind, err)
	}

	handle := platform.NewWindowHandle("secondary:"+string(kind), win)
	f.control.Track(handle)

	win.ShowAll()
	win.Present()

	secondaryLogger.Printf("created %s surface", kind)
	return &secondarySurface{handle: handle, control: f.control}, nil
}

func buildNotes(win *gtk.Window, cfg *config.Config) error {
	scrolled, err := gtk.ScrolledWindowNew(nil, nil)
	if err != nil {
		return err
	}
	scrolled.SetPolicy(gtk.POLICY_AUTOMATIC, gtk.POLICY_AUTOMATIC)

	view, err := gtk.TextViewNew()
	if err != nil {
		return err
	}
	view.SetName("notes-view")
	view.SetWrapMode(gtk.WRAP_WORD_CHAR)
	view.SetLeftMargin(8)
	view.SetRightMargin(8)

	scrolled.Add(view)
	win.Add(scrolled)
	return nil
}

func buildAssistant(win *gtk.Window, cfg *config.Config) error {
	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	if err != nil {
		return err
	}

	scrolled, err := gtk.ScrolledWindowNew(nil, nil)
	if err != nil {
		return err
	}
	scrolled.SetPolicy(gtk.POLICY_NEVER, gtk.POLICY_AUTOMATIC)
	scrolled.SetVExpand(true)

	transcript, err := gtk.TextViewNew()
	if err != nil {
		return err
	}
	transcript.SetName("assistant-log")
	transcript.SetEditable(false)
	transcript.SetWrapMode(gtk.WRAP_WORD_CHAR)
	scrolled.Add(transcript)
	box.PackStart(scrolled, true, true, 0)

	entry, err := gtk.EntryNew()
	if err != nil {
		return err
	}
	entry.SetName("assistant-entry")
	entry.SetPlaceholderText("Ask something...")
	box.PackStart(entry, false, false, 0)

	entry.Connect("activate", func() {
		text, _ := entry.GetText()
		if text == "" {
			return
		}
		buffer, err := transcript.GetBuffer()
		if err != nil {
			return
		}
		end := buffer.GetEndIter()
		buffer.Insert(end, "> "+text+"\n")
		entry.SetText("")
	})

	win.Add(box)
	return nil
}

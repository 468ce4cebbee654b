package platform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unsafe"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/joshuarubin/go-sway"

	"github.com/zacjones93/script-kit-next-sub006/internal/layer"
)

var platformLogger = log.New(log.Writer(), "[PLATFORM] ", log.LstdFlags|log.Lmicroseconds)

var (
	ErrInvalidHandle   = errors.New("surface handle is no longer valid")
	ErrNoFocusedOutput = errors.New("no focused output reported by compositor")
)

const swayCallTimeout = 2 * time.Second

// Control implements SurfaceControl on top of GTK windows and the sway
// IPC socket. All methods except ForegroundActive must run on the GTK
// main loop; ForegroundActive only talks to sway and is safe anywhere.
type Control struct {
	appID string

	mu      sync.Mutex
	tracked map[string]*WindowHandle

	placements *lru.Cache[string, Bounds]
}

// NewControl creates a Control for surfaces carrying the given
// Wayland app_id.
func NewControl(appID string) (*Control, error) {
	placements, err := lru.New[string, Bounds](8)
	if err != nil {
		return nil, fmt.Errorf("failed to create placement cache: %w", err)
	}
	return &Control{
		appID:      appID,
		tracked:    make(map[string]*WindowHandle),
		placements: placements,
	}, nil
}

// Track registers a handle so GlobalHide can reach it. Tracking is
// idempotent per handle id.
func (c *Control) Track(h *WindowHandle) {
	c.mu.Lock()
	c.tracked[h.ID()] = h
	c.mu.Unlock()
}

// Untrack forgets a handle, normally after its surface is destroyed.
func (c *Control) Untrack(id string) {
	c.mu.Lock()
	delete(c.tracked, id)
	c.mu.Unlock()
}

// GlobalHide hides every tracked surface, dropping the process's whole
// foreground presence at once.
func (c *Control) GlobalHide() error {
	c.mu.Lock()
	handles := make([]*WindowHandle, 0, len(c.tracked))
	for _, h := range c.tracked {
		handles = append(handles, h)
	}
	c.mu.Unlock()

	for _, h := range handles {
		if win := h.Window(); win != nil {
			win.Hide()
		}
	}
	return nil
}

// SurfaceHide hides one surface and nothing else.
func (c *Control) SurfaceHide(h SurfaceHandle) error {
	wh, ok := h.(*WindowHandle)
	if !ok || !wh.Valid() {
		return ErrInvalidHandle
	}
	wh.Window().Hide()
	return nil
}

// ShowAndActivate shows a surface at the given bounds and grabs
// keyboard focus for it. Placement goes through gtk-layer-shell
// margins since Wayland has no global window moves.
func (c *Control) ShowAndActivate(h SurfaceHandle, b Bounds) error {
	wh, ok := h.(*WindowHandle)
	if !ok || !wh.Valid() {
		return ErrInvalidHandle
	}
	win := wh.Window()
	if b.Width > 0 && b.Height > 0 {
		win.SetDefaultSize(b.Width, b.Height)
		win.Resize(b.Width, b.Height)
	}
	native := unsafe.Pointer(win.Native())
	layer.SetMargin(native, layer.EdgeTop, b.Y)
	win.ShowAll()
	win.Present()
	return nil
}

// GlobalActivate asks sway to focus our app's windows, raising them
// above any overlapping window regardless of which surface currently
// holds focus.
func (c *Control) GlobalActivate() error {
	ctx, cancel := context.WithTimeout(context.Background(), swayCallTimeout)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to sway: %w", err)
	}
	cmd := fmt.Sprintf(`[app_id="%s"] focus`, c.appID)
	if _, err := client.RunCommand(ctx, cmd); err != nil {
		return fmt.Errorf("sway focus command failed: %w", err)
	}
	return nil
}

// ForegroundActive reports whether the focused compositor node belongs
// to this process. Focus moving between our own surfaces keeps this
// true; only a genuine switch to another application flips it false.
func (c *Control) ForegroundActive() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), swayCallTimeout)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to connect to sway: %w", err)
	}
	tree, err := client.GetTree(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get sway tree: %w", err)
	}

	focused := findFocused(tree)
	if focused == nil || focused.AppID == nil {
		return false, nil
	}
	return *focused.AppID == c.appID, nil
}

func findFocused(n *sway.Node) *sway.Node {
	if n == nil {
		return nil
	}
	if n.Focused {
		return n
	}
	for i := range n.Nodes {
		if f := findFocused(&n.Nodes[i]); f != nil {
			return f
		}
	}
	for i := range n.FloatingNodes {
		if f := findFocused(&n.FloatingNodes[i]); f != nil {
			return f
		}
	}
	return nil
}

// ComputePlacement centers the primary surface near the top of the
// output the pointer is on. Output geometry is memoized per output
// name; monitors rarely change shape mid-session.
func (c *Control) ComputePlacement() (Bounds, error) {
	ctx, cancel := context.WithTimeout(context.Background(), swayCallTimeout)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return Bounds{}, fmt.Errorf("failed to connect to sway: %w", err)
	}

	workspaces, err := client.GetWorkspaces(ctx)
	if err != nil {
		return Bounds{}, fmt.Errorf("failed to get workspaces: %w", err)
	}

	outputName := ""
	for _, ws := range workspaces {
		if ws.Focused {
			outputName = ws.Output
			break
		}
	}
	if outputName == "" {
		return Bounds{}, ErrNoFocusedOutput
	}

	if b, ok := c.placements.Get(outputName); ok {
		return b, nil
	}

	outputs, err := client.GetOutputs(ctx)
	if err != nil {
		return Bounds{}, fmt.Errorf("failed to get outputs: %w", err)
	}

	for _, out := range outputs {
		if out.Name != outputName {
			continue
		}
		b := placementFor(int(out.Rect.Width), int(out.Rect.Height))
		c.placements.Add(outputName, b)
		platformLogger.Printf("placement for output %s: %+v", outputName, b)
		return b, nil
	}

	return Bounds{}, ErrNoFocusedOutput
}

// placementFor sizes the prompt to roughly half the output width,
// anchored a tenth of the way down.
func placementFor(outW, outH int) Bounds {
	w := outW / 2
	if w < 600 {
		w = 600
	}
	h := outH / 3
	if h < 400 {
		h = 400
	}
	return Bounds{
		X:      (outW - w) / 2,
		Y:      outH / 10,
		Width:  w,
		Height: h,
	}
}

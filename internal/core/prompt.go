package core

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/zacjones93/script-kit-next-sub006/internal/commands"
	"github.com/zacjones93/script-kit-next-sub006/internal/config"
	"github.com/zacjones93/script-kit-next-sub006/internal/layer"
	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
)

var promptLogger = log.New(log.Writer(), "[PROMPT] ", log.LstdFlags|log.Lmicroseconds)

// ViewState is the tagged enumeration of what the primary surface is
// showing. Dismissability is derived from it in exactly one place
// instead of scattered booleans per view.
type ViewState int

const (
	// ViewPrompt is the default empty search prompt.
	ViewPrompt ViewState = iota
	// ViewResults is the prompt with a live query and result list.
	ViewResults
	// ViewTask is a foreground task streaming output into the list.
	ViewTask
	// ViewConfirm awaits an explicit user choice.
	ViewConfirm
)

func (v ViewState) String() string {
	switch v {
	case ViewPrompt:
		return "prompt"
	case ViewResults:
		return "results"
	case ViewTask:
		return "task"
	case ViewConfirm:
		return "confirm"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Dismissable reports whether losing OS focus should abandon this
// view. A running task or a pending confirmation survives a glance at
// another window; the search views do not.
func (v ViewState) Dismissable() bool {
	switch v {
	case ViewPrompt, ViewResults:
		return true
	case ViewTask, ViewConfirm:
		return false
	}
	return false
}

// Prompt is the primary command surface: search entry, ranked result
// list, and an optional foreground task view. It never hides itself;
// every close gesture is routed through the coordinator via onClose.
type Prompt struct {
	config   *config.Config
	registry *commands.Registry

	window         *gtk.Window
	searchEntry    *gtk.Entry
	resultList     *gtk.ListBox
	scrolledWindow *gtk.ScrolledWindow
	handle         *platform.WindowHandle

	mu            sync.RWMutex
	view          ViewState
	currentInput  string
	currentItems  []commands.Command
	searchTimer   *time.Timer
	searchVersion int64
	taskCancel    context.CancelFunc

	// onClose routes a user close gesture to the coordinator; set
	// once during wiring, before any trigger can fire.
	onClose func(trigger string)
}

func NewPrompt(cfg *config.Config, registry *commands.Registry) (*Prompt, error) {
	window, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	window.SetDecorated(false)
	window.SetSkipTaskbarHint(true)
	window.SetSkipPagerHint(true)
	window.SetName("prompt-window")
	window.SetDefaultSize(cfg.Prompt.Width, cfg.Prompt.Height)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	window.Add(box)

	searchEntry, err := gtk.EntryNew()
	if err != nil {
		return nil, fmt.Errorf("failed to create search entry: %w", err)
	}
	searchEntry.SetPlaceholderText("Run a command...")
	searchEntry.SetName("prompt-entry")
	box.PackStart(searchEntry, false, false, 0)

	scrolledWindow, err := gtk.ScrolledWindowNew(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scrolled window: %w", err)
	}
	scrolledWindow.SetPolicy(gtk.POLICY_NEVER, gtk.POLICY_AUTOMATIC)
	scrolledWindow.SetVExpand(true)
	box.PackStart(scrolledWindow, true, true, 0)

	resultList, err := gtk.ListBoxNew()
	if err != nil {
		return nil, fmt.Errorf("failed to create result list: %w", err)
	}
	resultList.SetName("result-list")
	resultList.SetVExpand(true)
	scrolledWindow.Add(resultList)

	native := unsafe.Pointer(window.Native())
	layer.InitForWindow(native)
	layer.SetLayer(native, layer.LayerOverlay)
	layer.SetKeyboardMode(native, layer.KeyboardModeExclusive)
	layer.SetAnchor(native, layer.EdgeTop, true)
	layer.SetMargin(native, layer.EdgeTop, cfg.Prompt.TopMargin)
	layer.SetExclusiveZone(native, 0)

	p := &Prompt{
		config:         cfg,
		registry:       registry,
		window:         window,
		searchEntry:    searchEntry,
		resultList:     resultList,
		scrolledWindow: scrolledWindow,
		handle:         platform.NewWindowHandle("primary", window),
		view:           ViewPrompt,
	}

	p.setupSignals()
	return p, nil
}

// Handle is the surface handle the coordinator addresses this window by.
func (p *Prompt) Handle() *platform.WindowHandle { return p.handle }

// SetCloser installs the coordinator's explicit-close entry point.
func (p *Prompt) SetCloser(onClose func(trigger string)) {
	p.onClose = onClose
}

func (p *Prompt) close(trigger string) {
	if p.onClose != nil {
		p.onClose(trigger)
	}
}

func (p *Prompt) setupSignals() {
	p.searchEntry.Connect("changed", func() {
		text, _ := p.searchEntry.GetText()
		p.onSearchChanged(text)
	})

	p.searchEntry.Connect("activate", func() {
		p.onActivate(false)
	})

	p.searchEntry.Connect("key-press-event", func(entry *gtk.Entry, event *gdk.Event) bool {
		keyEvent := gdk.EventKeyNewFromEvent(event)
		return p.onKeyPress(keyEvent)
	})

	p.resultList.Connect("row-activated", func(list *gtk.ListBox, row *gtk.ListBoxRow) {
		p.activateRow(row, false)
	})

	p.window.Connect("show", func() {
		p.searchEntry.GrabFocus()
		p.updateResults(p.registry.Search("", p.config.Prompt.MaxResults), atomic.LoadInt64(&p.searchVersion))
	})
}

// View returns the current view state.
func (p *Prompt) View() ViewState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

func (p *Prompt) setView(v ViewState) {
	p.mu.Lock()
	p.view = v
	p.mu.Unlock()
}

// InPrompt reports whether the default empty prompt is showing.
func (p *Prompt) InPrompt() bool {
	return p.View() == ViewPrompt
}

// Dismissable re-derives dismissability from the live view state.
func (p *Prompt) Dismissable() bool {
	return p.View().Dismissable()
}

// CancelForegroundTask synchronously cancels any in-flight foreground
// task. Runs as the first step of every hide so a dead task can never
// mutate a hidden surface.
func (p *Prompt) CancelForegroundTask() {
	p.mu.Lock()
	cancel := p.taskCancel
	p.taskCancel = nil
	p.mu.Unlock()

	if cancel != nil {
		promptLogger.Printf("cancelling foreground task")
		cancel()
	}
}

// ResetToDefaultView returns the surface to the empty prompt.
func (p *Prompt) ResetToDefaultView() {
	p.mu.Lock()
	p.stopAndDrainSearchTimer()
	p.currentItems = nil
	p.currentInput = ""
	p.view = ViewPrompt
	p.mu.Unlock()

	p.searchEntry.SetText("")
	p.clearResultRows()
}

func (p *Prompt) onSearchChanged(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.view == ViewTask || p.view == ViewConfirm {
		return
	}

	p.currentInput = text
	if strings.TrimSpace(text) == "" {
		p.view = ViewPrompt
	} else {
		p.view = ViewResults
	}

	version := atomic.AddInt64(&p.searchVersion, 1)
	if p.searchTimer != nil {
		p.stopAndDrainSearchTimer()
	}

	debounceMs := p.config.Prompt.DebounceDelay
	p.searchTimer = time.AfterFunc(time.Duration(debounceMs)*time.Millisecond, func() {
		go func(query string, version int64) {
			items := p.registry.Search(query, p.config.Prompt.MaxResults)

			glib.IdleAdd(func() bool {
				current := atomic.LoadInt64(&p.searchVersion)
				if version != current {
					// Stale result set from an older keystroke.
					return false
				}
				p.updateResults(items, version)
				return false
			})
		}(text, version)
	})
}

func (p *Prompt) updateResults(items []commands.Command, version int64) {
	current := atomic.LoadInt64(&p.searchVersion)
	if version != current {
		return
	}

	p.mu.Lock()
	p.currentItems = items
	p.mu.Unlock()

	p.clearResultRows()
	for _, item := range items {
		row, err := p.createResultRow(item)
		if err != nil {
			promptLogger.Printf("failed to create row: %v", err)
			continue
		}
		p.resultList.Add(row)
	}

	children := p.resultList.GetChildren()
	if children.Length() > 0 {
		if row, ok := children.NthData(0).(*gtk.ListBoxRow); ok {
			p.resultList.SelectRow(row)
		}
	}
	p.resultList.ShowAll()
}

func (p *Prompt) clearResultRows() {
	children := p.resultList.GetChildren()
	children.Foreach(func(child interface{}) {
		if row, ok := child.(*gtk.ListBoxRow); ok {
			p.resultList.Remove(row)
		}
	})
}

func (p *Prompt) createResultRow(item commands.Command) (*gtk.ListBoxRow, error) {
	row, err := gtk.ListBoxRowNew()
	if err != nil {
		return nil, err
	}
	row.SetName("list-row")

	box, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 8)
	if err != nil {
		return nil, err
	}
	box.SetMarginStart(8)
	box.SetMarginEnd(8)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)

	if item.Icon != "" {
		icon, err := gtk.ImageNew()
		if err != nil {
			return nil, err
		}
		icon.SetFromIconName(item.Icon, gtk.ICON_SIZE_LARGE_TOOLBAR)
		box.PackStart(icon, false, false, 0)
	}

	label, err := gtk.LabelNew(item.Name)
	if err != nil {
		return nil, err
	}
	label.SetHAlign(gtk.ALIGN_START)
	box.PackStart(label, true, true, 0)

	if item.Description != "" {
		subLabel, err := gtk.LabelNew(item.Description)
		if err != nil {
			return nil, err
		}
		subLabel.SetHAlign(gtk.ALIGN_START)
		subLabel.SetMarginStart(16)
		box.PackStart(subLabel, true, true, 0)
	}

	row.Add(box)
	row.Show()
	return row, nil
}

func (p *Prompt) onActivate(foreground bool) {
	selected := p.resultList.GetSelectedRow()
	if selected != nil {
		p.activateRow(selected, foreground)
		return
	}

	p.mu.RLock()
	var first *commands.Command
	if len(p.currentItems) > 0 {
		first = &p.currentItems[0]
	}
	p.mu.RUnlock()

	if first != nil {
		p.runCommand(*first, foreground)
	}
}

func (p *Prompt) activateRow(row *gtk.ListBoxRow, foreground bool) {
	p.mu.RLock()
	index := row.GetIndex()
	if index < 0 || index >= len(p.currentItems) {
		p.mu.RUnlock()
		return
	}
	item := p.currentItems[index]
	p.mu.RUnlock()

	p.runCommand(item, foreground)
}

func (p *Prompt) runCommand(item commands.Command, foreground bool) {
	if foreground {
		p.runForeground(item)
		return
	}

	if err := p.registry.Execute(item); err != nil {
		promptLogger.Printf("failed to execute %q: %v", item.Name, err)
	}
	if p.config.Prompt.HideOnRun {
		p.close("command-executed")
	}
}

// runForeground runs the command inside the surface, streaming its
// output into the result list. The surface stays up until the task
// finishes or is cancelled by a hide transition.
func (p *Prompt) runForeground(item commands.Command) {
	parts := strings.Fields(item.Exec)
	if len(parts) == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	if p.taskCancel != nil {
		p.taskCancel()
	}
	p.taskCancel = cancel
	p.view = ViewTask
	p.mu.Unlock()

	p.clearResultRows()
	promptLogger.Printf("running %q in foreground", item.Name)

	go func() {
		out, err := exec.CommandContext(ctx, parts[0], parts[1:]...).CombinedOutput()

		glib.IdleAdd(func() bool {
			p.mu.Lock()
			stillCurrent := p.taskCancel != nil && p.view == ViewTask
			if stillCurrent {
				p.taskCancel = nil
			}
			p.mu.Unlock()
			if !stillCurrent {
				// The task was cancelled by a hide; its output
				// must not resurface.
				return false
			}

			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			if err != nil {
				lines = append(lines, fmt.Sprintf("error: %v", err))
			}
			p.showTaskOutput(item, lines)
			return false
		})
	}()
}

func (p *Prompt) showTaskOutput(item commands.Command, lines []string) {
	p.clearResultRows()
	for _, line := range lines {
		row, err := p.createResultRow(commands.Command{Name: line})
		if err != nil {
			continue
		}
		p.resultList.Add(row)
	}
	p.resultList.ShowAll()
	p.setView(ViewResults)
	promptLogger.Printf("foreground task %q finished, %d lines", item.Name, len(lines))
}

func (p *Prompt) onKeyPress(event *gdk.EventKey) bool {
	key := event.KeyVal()
	state := event.State()

	switch key {
	case gdk.KEY_Escape:
		p.close("escape")
		return true
	case gdk.KEY_Return:
		if state&uint(gdk.CONTROL_MASK) != 0 {
			p.onActivate(true)
			return true
		}
		return false
	case gdk.KEY_Down:
		p.navigateResult(1)
		return true
	case gdk.KEY_Up:
		p.navigateResult(-1)
		return true
	}

	return false
}

func (p *Prompt) navigateResult(direction int) {
	selected := p.resultList.GetSelectedRow()
	children := p.resultList.GetChildren()

	if children.Length() == 0 {
		return
	}

	currentIndex := -1
	if selected != nil {
		currentIndex = selected.GetIndex()
	}

	var nextIndex int
	if currentIndex == -1 {
		if direction > 0 {
			nextIndex = 0
		} else {
			nextIndex = int(children.Length()) - 1
		}
	} else {
		nextIndex = currentIndex + direction
		if nextIndex < 0 {
			nextIndex = int(children.Length()) - 1
		} else if nextIndex >= int(children.Length()) {
			nextIndex = 0
		}
	}

	if row, ok := children.NthData(uint(nextIndex)).(*gtk.ListBoxRow); ok {
		p.resultList.SelectRow(row)
	}
}

func (p *Prompt) stopAndDrainSearchTimer() {
	if p.searchTimer != nil {
		if !p.searchTimer.Stop() {
			select {
			case <-p.searchTimer.C:
			default:
			}
		}
		p.searchTimer = nil
	}
}

// Destroy tears the surface down at shutdown.
func (p *Prompt) Destroy() {
	p.CancelForegroundTask()
	p.mu.Lock()
	p.stopAndDrainSearchTimer()
	p.mu.Unlock()
	p.handle.Destroy()
}

package core

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/zacjones93/script-kit-next-sub006/internal/commands"
	"github.com/zacjones93/script-kit-next-sub006/internal/config"
	"github.com/zacjones93/script-kit-next-sub006/internal/hotkey"
	"github.com/zacjones93/script-kit-next-sub006/internal/notify"
	"github.com/zacjones93/script-kit-next-sub006/internal/platform"
	"github.com/zacjones93/script-kit-next-sub006/internal/visibility"
)

// App owns the daemon's lifetime: the GTK main loop, the surfaces, and
// the visibility subsystem wired around them.
type App struct {
	config      *config.Config
	running     bool
	sigChan     chan os.Signal
	control     *platform.Control
	registry    *commands.Registry
	prompt      *Prompt
	coordinator *visibility.Coordinator
	watcher     *visibility.FocusWatcher
	dispatcher  *hotkey.Dispatcher
	ipc         *IPCServer
	notifier    *notify.Sender
}

// NewApp creates a new application
func NewApp(cfg *config.Config) (*App, error) {
	return &App{
		config:  cfg,
		running: false,
		sigChan: make(chan os.Signal, 1),
	}, nil
}

// Run starts the application
func (a *App) Run() error {
	a.running = true

	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-a.sigChan
		log.Printf("Received signal: %v", sig)
		glib.IdleAdd(func() {
			a.Quit()
		})
	}()

	log.Println("kit starting...")

	if err := a.initialize(); err != nil {
		return err
	}

	gtk.Main()
	return nil
}

func (a *App) initialize() error {
	log.Println("Initializing components...")

	gtk.Init(nil)
	SetupStyles()

	control, err := platform.NewControl(a.config.AppID)
	if err != nil {
		return fmt.Errorf("failed to create surface control: %w", err)
	}
	a.control = control

	a.registry = commands.NewRegistry(a.config.Prompt.CacheSize)
	if err := a.registry.LoadBuiltIn(); err != nil {
		log.Printf("Failed to load builtin commands: %v", err)
	}
	if err := a.registry.LoadScripts(a.config.ScriptsDir); err != nil {
		log.Printf("Failed to load scripts: %v", err)
	}

	prompt, err := NewPrompt(a.config, a.registry)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	a.prompt = prompt
	control.Track(prompt.Handle())

	a.notifier = notify.NewSender(a.config.AppName)

	factory := NewSecondaryFactory(a.config, control)
	state := visibility.NewState()
	a.coordinator = visibility.NewCoordinator(
		state, control, prompt.Handle(), prompt, factory, a.notifier,
	)
	prompt.SetCloser(a.coordinator.OnExplicitClose)

	a.ipc = NewIPCServer(a.config)
	a.dispatcher = hotkey.NewDispatcher(a.ipc, NewGTKScheduler())
	a.bindHotkeys()

	if err := a.ipc.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}

	if a.config.Focus.AutoDismiss {
		a.watcher = visibility.NewFocusWatcher(control, a.coordinator, prompt)
		glib.TimeoutAdd(uint(a.config.Focus.PollInterval), func() bool {
			a.watcher.Tick()
			return a.running
		})
	}

	log.Println("Initialization complete")
	return nil
}

// bindHotkeys registers every configured binding. A bad accelerator or
// a claimed trigger is reported once and skipped; the rest of the
// bindings still work.
func (a *App) bindHotkeys() {
	accel, err := hotkey.NormalizeAccel(a.config.Hotkeys.PrimaryToggle)
	if err != nil {
		log.Printf("Bad primary accelerator: %v", err)
		a.notifier.Notify("Hotkey unavailable", err.Error())
	} else {
		primary := hotkey.NewPrimaryToggle(accel)
		if _, err := a.dispatcher.Bind(primary, a.coordinator.OnPrimaryToggle); err != nil {
			log.Printf("Hotkey registration failed: %v", err)
			a.notifier.Notify("Hotkey unavailable", err.Error())
		}
	}

	for kindName, rawAccel := range a.config.Hotkeys.Secondary {
		kind := visibility.SecondaryKind(kindName)
		accel, err := hotkey.NormalizeAccel(rawAccel)
		if err != nil {
			log.Printf("Bad accelerator for %s: %v", kind, err)
			a.notifier.Notify("Hotkey unavailable", err.Error())
			continue
		}
		binding := hotkey.NewOpenSecondary(kind, accel)
		action := func() { a.coordinator.OnOpenSecondary(kind) }
		if _, err := a.dispatcher.Bind(binding, action); err != nil {
			log.Printf("Hotkey registration failed: %v", err)
			a.notifier.Notify("Hotkey unavailable", err.Error())
		}
	}
}

// Quit gracefully quits the application
func (a *App) Quit() {
	if !a.running {
		return
	}
	a.running = false

	log.Println("Shutting down...")

	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}

	if a.ipc != nil {
		a.ipc.Stop()
	}

	if a.prompt != nil {
		a.prompt.Destroy()
	}

	if a.notifier != nil {
		a.notifier.Close()
	}

	gtk.MainQuit()
}

// GetConfig returns the application config
func (a *App) GetConfig() *config.Config {
	return a.config
}

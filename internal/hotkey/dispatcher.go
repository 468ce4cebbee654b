package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var hotkeyLogger = log.New(log.Writer(), "[HOTKEY] ", log.LstdFlags|log.Lmicroseconds)

var (
	ErrBindingClaimed = errors.New("hotkey binding already claimed")
	ErrNoAction       = errors.New("binding has no action")
)

// BindingID is the stable id a successful registration returns.
type BindingID int

// Registrar is the external global-hotkey registration mechanism. The
// fire callback may be invoked from any goroutine and must return
// quickly; it only crosses a channel.
type Registrar interface {
	Register(trigger string, fire func()) (BindingID, error)
}

// Scheduler runs a function as one uninterrupted turn of the UI
// scheduling loop and waits for it to finish.
type Scheduler interface {
	Invoke(fn func())
}

// triggerQueueDepth bounds how many unprocessed presses one binding
// can pile up; beyond that extra presses are dropped, which for a
// toggle is indistinguishable from pressing slower.
const triggerQueueDepth = 8

// Dispatcher owns one listener goroutine per registered binding. The
// channel between the registrar's callback and the listener is the
// only cross-thread boundary in the subsystem: state is only ever
// touched from inside Scheduler.Invoke.
type Dispatcher struct {
	registrar Registrar
	scheduler Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	listeners []*listener
}

type listener struct {
	id      BindingID
	trigger string
	ch      chan struct{}
	action  func()
}

func NewDispatcher(registrar Registrar, scheduler Scheduler) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		registrar: registrar,
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Bind registers a binding and starts its listener. A claimed trigger
// returns an error the caller reports once at startup; it is permanent
// for the session and not retried.
func (d *Dispatcher) Bind(b Binding, action func()) (BindingID, error) {
	if action == nil {
		return 0, ErrNoAction
	}

	ch := make(chan struct{}, triggerQueueDepth)
	id, err := d.registrar.Register(b.Trigger(), func() {
		// Foreign thread. Fire-and-forget: never block the OS
		// callback, never touch shared state here.
		select {
		case ch <- struct{}{}:
		default:
			hotkeyLogger.Printf("dropping trigger for %s: queue full", b.Trigger())
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register %s (%s): %w", b.Trigger(), b.Accel, err)
	}

	l := &listener{id: id, trigger: b.Trigger(), ch: ch, action: action}
	d.listeners = append(d.listeners, l)
	go l.run(d.ctx, d.scheduler)

	hotkeyLogger.Printf("bound %s (%s) as id %d", b.Trigger(), b.Accel, id)
	return id, nil
}

// run drains one binding's channel strictly sequentially: the next
// token is not taken until the previous action finished its UI turn.
func (l *listener) run(ctx context.Context, sched Scheduler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.ch:
			sched.Invoke(l.action)
		}
	}
}

// Stop shuts down all listeners. Pending queued triggers are dropped.
func (d *Dispatcher) Stop() {
	d.cancel()
}

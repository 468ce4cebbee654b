package hotkey

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zacjones93/script-kit-next-sub006/internal/visibility"
)

// fakeRegistrar hands out ids and rejects duplicate triggers, like the
// IPC server does.
type fakeRegistrar struct {
	mu       sync.Mutex
	nextID   BindingID
	handlers map[string]func()
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{handlers: make(map[string]func())}
}

func (r *fakeRegistrar) Register(trigger string, fire func()) (BindingID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.handlers[trigger]; taken {
		return 0, ErrBindingClaimed
	}
	r.handlers[trigger] = fire
	r.nextID++
	return r.nextID, nil
}

func (r *fakeRegistrar) fire(trigger string) {
	r.mu.Lock()
	fn := r.handlers[trigger]
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// serialScheduler stands in for the UI loop: one turn at a time, the
// caller blocked until its turn completed.
type serialScheduler struct {
	mu sync.Mutex
}

func (s *serialScheduler) Invoke(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestBindRejectsDuplicateTrigger(t *testing.T) {
	registrar := newFakeRegistrar()
	sched := &serialScheduler{}
	d := NewDispatcher(registrar, sched)
	defer d.Stop()

	if _, err := d.Bind(NewPrimaryToggle("super+space"), func() {}); err != nil {
		t.Fatalf("first bind failed: %v", err)
	}

	_, err := d.Bind(NewPrimaryToggle("super+k"), func() {})
	if !errors.Is(err, ErrBindingClaimed) {
		t.Errorf("expected ErrBindingClaimed for duplicate trigger, got %v", err)
	}
}

func TestBindRejectsNilAction(t *testing.T) {
	d := NewDispatcher(newFakeRegistrar(), &serialScheduler{})
	defer d.Stop()

	if _, err := d.Bind(NewPrimaryToggle("super+space"), nil); !errors.Is(err, ErrNoAction) {
		t.Errorf("expected ErrNoAction, got %v", err)
	}
}

func TestTriggersReachActionSequentially(t *testing.T) {
	registrar := newFakeRegistrar()
	sched := &serialScheduler{}
	d := NewDispatcher(registrar, sched)
	defer d.Stop()

	var runs int64
	binding := NewPrimaryToggle("super+space")
	if _, err := d.Bind(binding, func() { atomic.AddInt64(&runs, 1) }); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	const presses = 5
	for i := 0; i < presses; i++ {
		registrar.fire(binding.Trigger())
		// Let the listener drain before the next press, like a
		// human pressing a hotkey repeatedly.
		waitFor(t, time.Second, func() bool {
			return atomic.LoadInt64(&runs) == int64(i+1)
		})
	}

	if got := atomic.LoadInt64(&runs); got != presses {
		t.Errorf("expected %d action runs, got %d", presses, got)
	}
}

func TestFiresFromForeignGoroutines(t *testing.T) {
	registrar := newFakeRegistrar()
	sched := &serialScheduler{}
	d := NewDispatcher(registrar, sched)
	defer d.Stop()

	var notesRuns, assistantRuns int64
	notes := NewOpenSecondary(visibility.KindNotes, "super+n")
	assistant := NewOpenSecondary(visibility.KindAssistant, "super+a")
	if _, err := d.Bind(notes, func() { atomic.AddInt64(&notesRuns, 1) }); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if _, err := d.Bind(assistant, func() { atomic.AddInt64(&assistantRuns, 1) }); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registrar.fire(notes.Trigger())
		}()
		go func() {
			defer wg.Done()
			registrar.fire(assistant.Trigger())
		}()
	}
	wg.Wait()

	waitFor(t, time.Second, func() bool {
		return atomic.LoadInt64(&notesRuns) == 3 && atomic.LoadInt64(&assistantRuns) == 3
	})
}

func TestOverflowingQueueDropsInsteadOfBlocking(t *testing.T) {
	registrar := newFakeRegistrar()
	sched := &serialScheduler{}
	d := NewDispatcher(registrar, sched)

	binding := NewPrimaryToggle("super+space")
	block := make(chan struct{})
	started := make(chan struct{}, triggerQueueDepth*4)
	if _, err := d.Bind(binding, func() {
		started <- struct{}{}
		<-block
	}); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	// First fire occupies the listener; the rest pile into the
	// queue and past its depth must drop without blocking us.
	registrar.fire(binding.Trigger())
	<-started
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < triggerQueueDepth*3; i++ {
			registrar.fire(binding.Trigger())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fire callback blocked on a full queue")
	}

	close(block)
	d.Stop()
}

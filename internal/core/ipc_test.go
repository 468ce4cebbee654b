package core

import (
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/zacjones93/script-kit-next-sub006/internal/config"
	"github.com/zacjones93/script-kit-next-sub006/internal/hotkey"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig
	cfg.SocketPath = filepath.Join(t.TempDir(), "kit.sock")
	return &cfg
}

func TestRegisterClaimsTriggerOnce(t *testing.T) {
	s := NewIPCServer(testConfig(t))

	id1, err := s.Register("primary-toggle", func() {})
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if id1 == 0 {
		t.Error("expected a non-zero binding id")
	}

	if _, err := s.Register("primary-toggle", func() {}); !errors.Is(err, hotkey.ErrBindingClaimed) {
		t.Errorf("expected ErrBindingClaimed, got %v", err)
	}

	id2, err := s.Register("secondary:notes", func() {})
	if err != nil {
		t.Fatalf("register of distinct trigger failed: %v", err)
	}
	if id2 == id1 {
		t.Error("expected distinct binding ids")
	}
}

func TestSocketTriggerFiresBinding(t *testing.T) {
	cfg := testConfig(t)
	s := NewIPCServer(cfg)

	fired := make(chan string, 4)
	if _, err := s.Register("primary-toggle", func() { fired <- "primary" }); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register("secondary:notes", func() { fired <- "notes" }); err != nil {
		t.Fatal(err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("failed to start IPC server: %v", err)
	}
	defer s.Stop()

	send := func(msg string) {
		t.Helper()
		conn, err := net.Dial("unix", cfg.SocketPath)
		if err != nil {
			t.Fatalf("dial failed: %v", err)
		}
		defer conn.Close()
		if _, err := conn.Write([]byte(msg + "\n")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	send("primary-toggle")
	send("secondary:notes")
	send("secondary:unknown") // no binding; must be ignored

	got := map[string]int{}
	for i := 0; i < 2; i++ {
		select {
		case name := <-fired:
			got[name]++
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for triggers, got %v", got)
		}
	}
	if got["primary"] != 1 || got["notes"] != 1 {
		t.Errorf("unexpected trigger counts: %v", got)
	}

	select {
	case name := <-fired:
		t.Errorf("unexpected extra trigger %q", name)
	case <-time.After(100 * time.Millisecond):
	}
}

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegisterAndSearch(t *testing.T) {
	r := NewRegistry(16)
	if err := r.LoadBuiltIn(); err != nil {
		t.Fatalf("failed to load builtins: %v", err)
	}

	if r.Len() < 4 {
		t.Errorf("expected at least 4 builtin commands, got %d", r.Len())
	}

	results := r.Search("term", 10)
	if len(results) == 0 {
		t.Fatal("expected a match for 'term'")
	}
	if results[0].Name != "Terminal" {
		t.Errorf("expected Terminal first for 'term', got %q", results[0].Name)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(16)
	cmd := Command{Name: "One", Exec: "true"}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(cmd); !errors.Is(err, ErrDuplicateCommand) {
		t.Errorf("expected ErrDuplicateCommand, got %v", err)
	}
}

func TestEmptyQueryReturnsEverythingSorted(t *testing.T) {
	r := NewRegistry(16)
	r.Register(Command{Name: "zeta", Exec: "true"})
	r.Register(Command{Name: "alpha", Exec: "true"})

	results := r.Search("", 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "alpha" || results[1].Name != "zeta" {
		t.Errorf("expected name-sorted results, got %v", results)
	}
}

func TestSearchHonorsMaxResults(t *testing.T) {
	r := NewRegistry(16)
	r.Register(Command{Name: "note one", Exec: "true"})
	r.Register(Command{Name: "note two", Exec: "true"})
	r.Register(Command{Name: "note three", Exec: "true"})

	results := r.Search("note", 2)
	if len(results) != 2 {
		t.Errorf("expected max_results to cap output at 2, got %d", len(results))
	}
}

func TestSearchCacheInvalidatedOnRegister(t *testing.T) {
	r := NewRegistry(16)
	r.Register(Command{Name: "alpha", Exec: "true"})

	before := r.Search("alp", 10)
	if len(before) != 1 {
		t.Fatalf("expected one match, got %d", len(before))
	}

	r.Register(Command{Name: "alpine", Exec: "true"})
	after := r.Search("alp", 10)
	if len(after) != 2 {
		t.Errorf("expected the cache purged after a new registration, got %d results", len(after))
	}
}

func TestExecuteRejectsEmptyCommand(t *testing.T) {
	r := NewRegistry(16)
	if err := r.Execute(Command{Name: "nothing"}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("expected ErrEmptyCommand, got %v", err)
	}
}

func TestLoadScriptsParsesHeaders(t *testing.T) {
	dir := t.TempDir()
	script := `#!/bin/sh
# Name: Deploy Site
# Description: Build and rsync the site
# Icon: network-server
echo deploying
`
	if err := os.WriteFile(filepath.Join(dir, "deploy.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plain.sh"), []byte("#!/bin/sh\necho hi\n"), 0755); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(16)
	if err := r.LoadScripts(dir); err != nil {
		t.Fatalf("LoadScripts failed: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("expected 2 scripts loaded, got %d", r.Len())
	}

	results := r.Search("deploy", 10)
	if len(results) == 0 {
		t.Fatal("expected a match for 'deploy'")
	}
	cmd := results[0]
	if cmd.Name != "Deploy Site" {
		t.Errorf("expected header name, got %q", cmd.Name)
	}
	if cmd.Description != "Build and rsync the site" {
		t.Errorf("unexpected description %q", cmd.Description)
	}
	if cmd.Icon != "network-server" {
		t.Errorf("unexpected icon %q", cmd.Icon)
	}

	// The unannotated script falls back to its file name.
	plain := r.Search("plain", 10)
	if len(plain) == 0 || plain[0].Name != "plain" {
		t.Errorf("expected fallback name 'plain', got %v", plain)
	}
}

func TestLoadScriptsMissingDirIsFine(t *testing.T) {
	r := NewRegistry(16)
	if err := r.LoadScripts(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("a missing scripts directory must not be an error, got %v", err)
	}
}

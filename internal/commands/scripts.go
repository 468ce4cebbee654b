package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Script metadata lives in comment headers near the top of each file:
//
//	# Name: Open Project
//	# Description: cd to the project and open the editor
//	# Icon: folder-open
//
// Unannotated scripts fall back to their file name.
const metadataScanLines = 20

// LoadScripts registers every executable script under dir. A missing
// directory is fine; the user simply has no scripts yet.
func (r *Registry) LoadScripts(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		registryLogger.Printf("no scripts directory at %s", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read scripts directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		cmd, err := parseScript(path)
		if err != nil {
			registryLogger.Printf("skipping script %s: %v", path, err)
			continue
		}
		if err := r.Register(cmd); err != nil {
			registryLogger.Printf("skipping script %s: %v", path, err)
			continue
		}
		loaded++
	}

	registryLogger.Printf("loaded %d scripts from %s", loaded, dir)
	return nil
}

func parseScript(path string) (Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return Command{}, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cmd := Command{
		Name:   name,
		Icon:   "utilities-terminal",
		Exec:   path,
		Source: path,
	}

	scanner := bufio.NewScanner(f)
	for i := 0; i < metadataScanLines && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		switch {
		case strings.HasPrefix(line, "Name:"):
			cmd.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Description:"):
			cmd.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		case strings.HasPrefix(line, "Icon:"):
			cmd.Icon = strings.TrimSpace(strings.TrimPrefix(line, "Icon:"))
		}
	}
	if err := scanner.Err(); err != nil {
		return Command{}, fmt.Errorf("failed to read script header: %w", err)
	}
	return cmd, nil
}

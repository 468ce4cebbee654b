package commands

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sahilm/fuzzy"
)

var registryLogger = log.New(log.Writer(), "[COMMANDS] ", log.LstdFlags)

var (
	ErrEmptyCommand     = errors.New("command has nothing to execute")
	ErrDuplicateCommand = errors.New("command name already registered")
)

// minMatchScore drops fuzzy matches that only share a stray letter or
// two with the query.
const minMatchScore = 0

// Command is one executable entry in the launcher.
type Command struct {
	Name        string
	Description string
	Icon        string
	Exec        string
	Source      string // "builtin" or the script path
}

// Registry holds every known command and answers ranked fuzzy queries
// over them.
type Registry struct {
	mu       sync.RWMutex
	commands []Command
	byName   map[string]int
	cache    *SearchCache
}

func NewRegistry(cacheSize int) *Registry {
	cache, err := NewSearchCache(cacheSize)
	if err != nil {
		registryLogger.Printf("search cache disabled: %v", err)
		cache = nil
	}
	return &Registry{
		byName: make(map[string]int),
		cache:  cache,
	}
}

// Register adds one command. Names are unique.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[cmd.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.Name)
	}
	r.byName[cmd.Name] = len(r.commands)
	r.commands = append(r.commands, cmd)
	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// All returns every command sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search returns commands ranked by fuzzy match quality. An empty
// query returns everything, name-sorted.
func (r *Registry) Search(query string, maxResults int) []Command {
	start := time.Now()
	query = strings.TrimSpace(query)

	if query == "" {
		all := r.All()
		return truncate(all, maxResults)
	}

	if r.cache != nil {
		if hit, ok := r.cache.Get(query); ok {
			return truncate(hit, maxResults)
		}
	}

	r.mu.RLock()
	names := make([]string, len(r.commands))
	for i, c := range r.commands {
		names[i] = c.Name
	}
	matches := fuzzy.Find(query, names)
	results := make([]Command, 0, len(matches))
	for _, m := range matches {
		if m.Score < minMatchScore {
			continue
		}
		results = append(results, r.commands[m.Index])
	}
	r.mu.RUnlock()

	if r.cache != nil {
		r.cache.Put(query, results, time.Since(start))
	}
	return truncate(results, maxResults)
}

func truncate(cmds []Command, max int) []Command {
	if max > 0 && len(cmds) > max {
		return cmds[:max]
	}
	return cmds
}

// Execute starts a command detached in its own session so it outlives
// the launcher and never holds our controlling terminal.
func (r *Registry) Execute(cmd Command) error {
	parts := strings.Fields(cmd.Exec)
	if len(parts) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyCommand, cmd.Name)
	}

	proc := exec.Command(parts[0], parts[1:]...)
	proc.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", cmd.Name, err)
	}

	registryLogger.Printf("started %q (pid %d)", cmd.Name, proc.Process.Pid)
	go proc.Wait()
	return nil
}

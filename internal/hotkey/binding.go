package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zacjones93/script-kit-next-sub006/internal/visibility"
)

var (
	ErrEmptyAccel = errors.New("empty hotkey accelerator")
	ErrNoKey      = errors.New("hotkey accelerator has modifiers but no key")
)

// Kind says what a binding does when it fires.
type Kind int

const (
	PrimaryToggle Kind = iota
	OpenSecondary
)

func (k Kind) String() string {
	switch k {
	case PrimaryToggle:
		return "primary-toggle"
	case OpenSecondary:
		return "open-secondary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Binding is one configured global hotkey. Construct via NewPrimaryToggle
// or NewOpenSecondary so the trigger name stays consistent.
type Binding struct {
	Kind      Kind
	Secondary visibility.SecondaryKind
	Accel     string
}

func NewPrimaryToggle(accel string) Binding {
	return Binding{Kind: PrimaryToggle, Accel: accel}
}

func NewOpenSecondary(kind visibility.SecondaryKind, accel string) Binding {
	return Binding{Kind: OpenSecondary, Secondary: kind, Accel: accel}
}

// Trigger is the stable name a binding registers under and the token
// the client binary sends over the socket.
func (b Binding) Trigger() string {
	if b.Kind == OpenSecondary {
		return "secondary:" + string(b.Secondary)
	}
	return "primary-toggle"
}

var modifierNames = map[string]string{
	"super": "super", "mod4": "super", "cmd": "super", "win": "super",
	"ctrl": "ctrl", "control": "ctrl",
	"alt": "alt", "mod1": "alt", "opt": "alt",
	"shift": "shift",
}

// NormalizeAccel canonicalizes an accelerator like "Super+Shift+N" to
// "super+shift+n": known modifier aliases folded, modifiers sorted,
// exactly one trailing key.
func NormalizeAccel(accel string) (string, error) {
	raw := strings.TrimSpace(accel)
	if raw == "" {
		return "", ErrEmptyAccel
	}

	parts := strings.Split(raw, "+")
	var mods []string
	key := ""
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if canonical, ok := modifierNames[p]; ok {
			mods = append(mods, canonical)
			continue
		}
		if key != "" {
			return "", fmt.Errorf("accelerator %q has two keys (%q and %q)", accel, key, p)
		}
		key = p
	}
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrNoKey, accel)
	}

	sort.Strings(mods)
	mods = dedupe(mods)
	return strings.Join(append(mods, key), "+"), nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}

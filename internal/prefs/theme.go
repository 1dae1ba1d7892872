// Package prefs persists user preferences that outlive a session.
package prefs

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/newshub/internal/debuglog"
)

// DarkModeKey is the KV key holding "true" or "false".
const DarkModeKey = "darkMode"

type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Theme remembers whether the dark palette is active.
type Theme struct {
	kv   KV
	dark bool
	// Explicit is false while the value still comes from the terminal.
	explicit bool
}

// SystemDark reports the terminal's background; replaced in tests.
var SystemDark = lipgloss.HasDarkBackground

// LoadTheme reads the stored preference, falling back to the terminal's
// background when it is missing or unreadable.
func LoadTheme(kv KV) *Theme {
	t := &Theme{kv: kv}
	raw, found, err := kv.Get(DarkModeKey)
	if err != nil {
		debuglog.Warnf("prefs: reading %s: %v", DarkModeKey, err)
	}
	if found && err == nil {
		if v, perr := strconv.ParseBool(raw); perr == nil {
			t.dark = v
			t.explicit = true
			return t
		}
		debuglog.Warnf("prefs: ignoring invalid %s value %q", DarkModeKey, raw)
	}
	t.dark = SystemDark()
	return t
}

func (t *Theme) Dark() bool { return t.dark }

func (t *Theme) Explicit() bool { return t.explicit }

// Set stores the preference. Write failures are logged; the in-memory value
// still changes.
func (t *Theme) Set(dark bool) {
	t.dark = dark
	t.explicit = true
	if err := t.kv.Set(DarkModeKey, strconv.FormatBool(dark)); err != nil {
		debuglog.Errorf("prefs: saving %s: %v", DarkModeKey, err)
	}
}

// Toggle flips the preference and returns the new value.
func (t *Theme) Toggle() bool {
	t.Set(!t.dark)
	return t.dark
}

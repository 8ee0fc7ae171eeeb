// Package theme defines the TUI color palette.
package theme

import "sync"

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string

	// Background hierarchy (dark→light)
	BgBase    string
	BgSurface string
	BgOverlay string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Borders
	BorderDefault string
	BorderFocused string
}

var (
	mu      sync.RWMutex
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

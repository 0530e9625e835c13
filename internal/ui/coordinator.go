// Package ui holds the navigation and overlay state machine of a page session.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"stayprice-session/internal/models"
)

// ProfileMenuRegion is the pointer target name of the profile menu, including
// its toggle button. Targets nested under it ("profile-menu/...") count as inside.
const ProfileMenuRegion = "profile-menu"

var ErrUnknownTab = errors.New("unknown tab")

// HistoryLog is the part of the history repository the coordinator needs
type HistoryLog interface {
	Load(ctx context.Context) []models.HistoryRecord
	Clear(ctx context.Context)
}

// ThemeStore is the part of the settings store the coordinator needs
type ThemeStore interface {
	Get(ctx context.Context) models.Theme
	Set(ctx context.Context, theme models.Theme) error
}

// Coordinator decides which tab is active and which overlay is open. At most
// one overlay is visible: opening a modal closes the profile menu and the
// other modal.
type Coordinator struct {
	history  HistoryLog
	settings ThemeStore
	bus      *PointerBus

	mu          sync.Mutex
	state       models.UIState
	snapshot    []models.HistoryRecord
	unsubscribe func()
	menuGen     uint64
	closed      bool
}

func NewCoordinator(history HistoryLog, settings ThemeStore, bus *PointerBus) *Coordinator {
	return &Coordinator{
		history:  history,
		settings: settings,
		bus:      bus,
		state:    models.UIState{ActiveTab: models.TabHome},
		snapshot: []models.HistoryRecord{},
	}
}

// State returns a copy of the current UI state
func (c *Coordinator) State() models.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// SelectTab activates tab and dismisses any open menu
func (c *Coordinator) SelectTab(tab models.Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.ActiveTab = tab
	c.closeProfileMenuLocked()
	c.state.MobileMenuOpen = false
	return nil
}

// ToggleProfileMenu flips the profile menu. While it is open the coordinator
// listens for pointer-downs outside the menu.
func (c *Coordinator) ToggleProfileMenu() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.ProfileMenuOpen {
		c.closeProfileMenuLocked()
		return false
	}
	if c.closed {
		return false
	}

	c.state.ProfileMenuOpen = true
	c.menuGen++
	gen := c.menuGen
	c.unsubscribe = c.bus.Subscribe(func(ev PointerEvent) { c.onPointerDown(gen, ev) })
	return true
}

// ToggleMobileMenu flips the separate mobile navigation menu
func (c *Coordinator) ToggleMobileMenu() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.MobileMenuOpen = !c.state.MobileMenuOpen
	return c.state.MobileMenuOpen
}

// OpenHistoryModal opens the history modal with a snapshot taken now. The
// snapshot does not follow later appends.
func (c *Coordinator) OpenHistoryModal(ctx context.Context) []models.HistoryRecord {
	records := c.history.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeProfileMenuLocked()
	c.state.SettingsModalOpen = false
	c.state.HistoryModalOpen = true
	c.snapshot = records
	return cloneRecords(c.snapshot)
}

func (c *Coordinator) CloseHistoryModal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.HistoryModalOpen = false
}

// HistorySnapshot returns the records captured when the history modal opened
func (c *Coordinator) HistorySnapshot() []models.HistoryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneRecords(c.snapshot)
}

// ClearHistory wipes the log and the modal's snapshot; the modal stays open
func (c *Coordinator) ClearHistory(ctx context.Context) {
	c.history.Clear(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = []models.HistoryRecord{}
}

// OpenSettingsModal opens the settings modal and returns the current theme
func (c *Coordinator) OpenSettingsModal(ctx context.Context) models.Theme {
	theme := c.settings.Get(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeProfileMenuLocked()
	c.state.HistoryModalOpen = false
	c.state.SettingsModalOpen = true
	return theme
}

func (c *Coordinator) CloseSettingsModal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SettingsModalOpen = false
}

// Theme returns the persisted theme
func (c *Coordinator) Theme(ctx context.Context) models.Theme {
	return c.settings.Get(ctx)
}

// SetTheme writes the theme immediately; closing the modal afterwards loses nothing
func (c *Coordinator) SetTheme(ctx context.Context, theme models.Theme) error {
	return c.settings.Set(ctx, theme)
}

// PointerDown publishes a pointer-down on the coordinator's bus
func (c *Coordinator) PointerDown(target string) {
	c.bus.Publish(PointerEvent{Target: target})
}

// Close ends the coordinator's lifetime and drops its bus subscription
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeProfileMenuLocked()
	c.closed = true
}

// onPointerDown handles a click delivered to the subscription made when the
// menu was opened for the gen-th time. A delivery that races a later reopen
// is ignored.
func (c *Coordinator) onPointerDown(gen uint64, ev PointerEvent) {
	if insideRegion(ev.Target, ProfileMenuRegion) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.menuGen || !c.state.ProfileMenuOpen {
		return
	}
	c.closeProfileMenuLocked()
}

func (c *Coordinator) closeProfileMenuLocked() {
	c.state.ProfileMenuOpen = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func insideRegion(target, region string) bool {
	return target == region || strings.HasPrefix(target, region+"/")
}

func cloneRecords(records []models.HistoryRecord) []models.HistoryRecord {
	out := make([]models.HistoryRecord, len(records))
	copy(out, records)
	return out
}

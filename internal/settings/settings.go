package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stayprice-session/internal/models"
	"stayprice-session/internal/store"
)

// ThemeKey is the persisted key for the theme preference
const ThemeKey = "theme"

var ErrInvalidTheme = errors.New("invalid theme")

// Store holds the single theme preference. Writes go straight through; there
// is no draft state.
type Store struct {
	store *store.Adapter
}

func NewStore(adapter *store.Adapter) *Store {
	return &Store{store: adapter}
}

// Get returns the stored theme, or the default when absent or unrecognised
func (s *Store) Get(ctx context.Context) models.Theme {
	raw, ok := s.store.Read(ctx, ThemeKey)
	if !ok {
		return models.DefaultTheme
	}
	theme := models.Theme(strings.TrimSpace(raw))
	if !theme.Valid() {
		return models.DefaultTheme
	}
	return theme
}

// Set persists theme. Only values outside the enum are rejected; storage
// failures are absorbed.
func (s *Store) Set(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	s.store.Write(ctx, ThemeKey, string(theme))
	return nil
}

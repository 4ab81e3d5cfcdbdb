package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nege373/namazingo/internal/types/profile"
	"github.com/nege373/namazingo/storage"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ProfileService stores the user profile and theme preference. Unlike
// the ledgers these are read through to the store on every call; they
// are tiny and mutated rarely.
type ProfileService struct {
	store storage.Store
	mu    sync.Mutex
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) Profile(ctx context.Context) (*profile.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Get(ctx, storage.KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok {
		return nil, ErrProfileNotFound
	}

	var p profile.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (s *ProfileService) SaveProfile(ctx context.Context, p *profile.UserProfile) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Country = strings.TrimSpace(p.Country)
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, storage.KeyProfile, string(data)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *ProfileService) RemoveProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Remove(ctx, storage.KeyProfile); err != nil {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}

// Theme returns the stored preference, defaulting to light.
func (s *ProfileService) Theme(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Get(ctx, storage.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("failed to load theme: %w", err)
	}
	if !ok || (raw != ThemeLight && raw != ThemeDark) {
		return ThemeLight, nil
	}
	return raw, nil
}

func (s *ProfileService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: theme must be %q or %q", ErrInvalidInput, ThemeLight, ThemeDark)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, storage.KeyTheme, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

package tracker

import (
	"fmt"
	"strconv"

	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/storage"
)

// Preference keys.
const (
	ShowSecondsKey = "tp-show-seconds"
	ThemeKey       = "tp-theme"
)

// Preferences are display settings stored next to the project data.
type Preferences struct {
	kv storage.KV
}

// NewPreferences reads and writes settings through kv.
func NewPreferences(kv storage.KV) *Preferences {
	return &Preferences{kv: kv}
}

// ShowSeconds reports whether times render with a seconds field. Defaults to true.
func (p *Preferences) ShowSeconds() bool {
	raw, ok, err := p.kv.Get(ShowSecondsKey)
	if err != nil || !ok {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

// SetShowSeconds persists the seconds display flag.
func (p *Preferences) SetShowSeconds(v bool) error {
	if err := p.kv.Set(ShowSecondsKey, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("saving show-seconds: %w", err)
	}
	return nil
}

// Theme returns the stored theme id, or the default when unset or unknown.
func (p *Preferences) Theme() string {
	raw, ok, err := p.kv.Get(ThemeKey)
	if err != nil || !ok {
		return feature.DefaultTheme
	}
	id := decodeString(raw)
	if _, known := feature.LookupTheme(id); !known {
		return feature.DefaultTheme
	}
	return id
}

// SetTheme persists a theme id without checking entitlement.
func (p *Preferences) SetTheme(id string) error {
	if err := p.kv.Set(ThemeKey, id); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

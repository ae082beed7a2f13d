package feature

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/storage"
)

// Tier is a subscription level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// TierKey is the storage key holding the persisted tier.
const TierKey = "subscription-tier"

// Features are the capability limits granted by a tier.
type Features struct {
	MaxProjects     int
	MultipleTimers  bool
	HasFolders      bool
	HasAppThemes    bool
	AvailableColors []model.AccentColor
}

// AllowsColor reports whether c may be picked without an upgrade.
func (f Features) AllowsColor(c model.AccentColor) bool {
	for _, allowed := range f.AvailableColors {
		if allowed == c {
			return true
		}
	}
	return false
}

// For returns the capabilities of tier. Unknown tiers get free limits. The
// color list is a fresh copy on every call.
func For(tier Tier) Features {
	if tier == TierPro {
		return Features{
			MaxProjects:     100,
			MultipleTimers:  true,
			HasFolders:      true,
			HasAppThemes:    true,
			AvailableColors: slices.Clone(model.AllColors),
		}
	}
	return Features{
		MaxProjects:     10,
		AvailableColors: slices.Clone(model.FreeColors),
	}
}

// ParseTier accepts "free" or "pro" in any case.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	}
	return "", fmt.Errorf("unknown tier %q (want free or pro)", s)
}

// LoadTier reads the persisted tier; missing, unreadable or unknown values
// mean free.
func LoadTier(kv storage.KV) Tier {
	raw, ok, err := kv.Get(TierKey)
	if err != nil || !ok {
		return TierFree
	}
	tier, err := ParseTier(raw)
	if err != nil {
		return TierFree
	}
	return tier
}

// SaveTier persists tier. This is the upgrade flow's entry point.
func SaveTier(kv storage.KV, tier Tier) error {
	if _, err := ParseTier(string(tier)); err != nil {
		return err
	}
	if err := kv.Set(TierKey, string(tier)); err != nil {
		return fmt.Errorf("saving tier: %w", err)
	}
	return nil
}

// Source yields the capabilities in effect right now.
type Source interface {
	Features() Features
}

// Stored reads the tier from storage on every call so an upgrade written by
// another component takes effect immediately.
type Stored struct {
	KV storage.KV
}

// Features implements Source.
func (s Stored) Features() Features { return For(LoadTier(s.KV)) }

// Tier returns the persisted tier.
func (s Stored) Tier() Tier { return LoadTier(s.KV) }

// Fixed always reports the same tier.
type Fixed Tier

// Features implements Source.
func (f Fixed) Features() Features { return For(Tier(f)) }

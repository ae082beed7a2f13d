package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/model"
)

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous name")
	ErrProjectLimit  = errors.New("project limit reached")
	ErrColorLocked   = errors.New("color requires pro")
	ErrFoldersLocked = errors.New("tags require pro")
	ErrThemeLocked   = errors.New("theme requires pro")
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrUnknownColor  = errors.New("unknown color")
)

// Service applies the tier capabilities on top of a Store. Front ends go
// through it; the Store itself never rejects a capability.
type Service struct {
	store *Store
	tiers feature.Source
	prefs *Preferences
}

// NewService wraps store. prefs may be nil when themes are not used.
func NewService(store *Store, tiers feature.Source, prefs *Preferences) *Service {
	return &Service{store: store, tiers: tiers, prefs: prefs}
}

// Store exposes the wrapped store for read access and ticking.
func (s *Service) Store() *Store { return s.store }

// Features returns the capabilities currently in effect.
func (s *Service) Features() feature.Features { return s.tiers.Features() }

// CreateProject adds a project after checking the count cap, the color
// palette and tag availability.
func (s *Service) CreateProject(name string, color model.AccentColor, tagIDs ...string) (model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return model.Project{}, ErrEmptyName
	}
	f := s.tiers.Features()
	if color == "" {
		color = model.DefaultColor
	}
	if err := s.checkColor(f, color); err != nil {
		return model.Project{}, fmt.Errorf("creating project %q: %w", name, err)
	}
	if err := s.checkTags(f, tagIDs); err != nil {
		return model.Project{}, fmt.Errorf("creating project %q: %w", name, err)
	}
	return s.store.CreateProjectWithin(f.MaxProjects, name, color, tagIDs...)
}

// UpdateProject validates and applies patch. Negative times are clamped to
// zero before reaching the store.
func (s *Service) UpdateProject(id string, patch model.ProjectPatch) error {
	if _, ok := s.store.Project(id); !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	f := s.tiers.Features()
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrEmptyName
	}
	if patch.AccentColor != nil {
		if err := s.checkColor(f, *patch.AccentColor); err != nil {
			return fmt.Errorf("updating project %s: %w", id, err)
		}
	}
	if patch.TagIDs != nil {
		if err := s.checkTags(f, *patch.TagIDs); err != nil {
			return fmt.Errorf("updating project %s: %w", id, err)
		}
	}
	if patch.TimeInSeconds != nil {
		clamped := max(0, *patch.TimeInSeconds)
		patch.TimeInSeconds = &clamped
	}
	s.store.UpdateProject(id, patch)
	return nil
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(id string) error {
	if _, ok := s.store.Project(id); !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	s.store.DeleteProject(id)
	return nil
}

// ToggleTimer flips the timer of a project and returns its new state.
func (s *Service) ToggleTimer(id string) (model.Project, error) {
	if _, ok := s.store.Project(id); !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	s.store.ToggleTimer(id)
	p, _ := s.store.Project(id)
	return p, nil
}

// StopAll stops every running timer and returns how many were running.
func (s *Service) StopAll() int {
	n := len(s.store.RunningProjects())
	s.store.StopAll()
	return n
}

// AddTime adjusts the accumulated time of a project by delta seconds.
func (s *Service) AddTime(id string, delta int64) (model.Project, error) {
	if _, ok := s.store.Project(id); !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	s.store.AddTime(id, delta)
	p, _ := s.store.Project(id)
	return p, nil
}

// SetTime replaces the accumulated time of a project.
func (s *Service) SetTime(id string, seconds int64) (model.Project, error) {
	if _, ok := s.store.Project(id); !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	s.store.SetTime(id, seconds)
	p, _ := s.store.Project(id)
	return p, nil
}

// CreateTag adds a tag. Tags are a pro capability.
func (s *Service) CreateTag(name string, color model.AccentColor) (model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return model.Tag{}, ErrEmptyName
	}
	f := s.tiers.Features()
	if !f.HasFolders {
		return model.Tag{}, fmt.Errorf("creating tag %q: %w", name, ErrFoldersLocked)
	}
	if color == "" {
		color = model.DefaultColor
	}
	if err := s.checkColor(f, color); err != nil {
		return model.Tag{}, fmt.Errorf("creating tag %q: %w", name, err)
	}
	t, ok := s.store.CreateTag(name, color)
	if !ok {
		return model.Tag{}, ErrEmptyName
	}
	return t, nil
}

// UpdateTag renames or recolors a tag.
func (s *Service) UpdateTag(id string, patch model.TagPatch) error {
	if _, ok := s.store.Tag(id); !ok {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	f := s.tiers.Features()
	if !f.HasFolders {
		return fmt.Errorf("updating tag %s: %w", id, ErrFoldersLocked)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrEmptyName
	}
	if patch.Color != nil {
		if err := s.checkColor(f, *patch.Color); err != nil {
			return fmt.Errorf("updating tag %s: %w", id, err)
		}
	}
	s.store.UpdateTag(id, patch)
	return nil
}

// DeleteTag removes a tag from the list and from every project. Allowed on
// any tier so a downgraded user can still clean up.
func (s *Service) DeleteTag(id string) error {
	if _, ok := s.store.Tag(id); !ok {
		return fmt.Errorf("tag %s: %w", id, ErrNotFound)
	}
	s.store.DeleteTag(id)
	return nil
}

// SelectTag sets the project filter; "" clears it.
func (s *Service) SelectTag(id string) error {
	if id != "" {
		if _, ok := s.store.Tag(id); !ok {
			return fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
	}
	s.store.SelectTag(id)
	return nil
}

// SelectTheme stores the app theme when the tier allows it.
func (s *Service) SelectTheme(id string) error {
	theme, ok := feature.LookupTheme(id)
	if !ok {
		return fmt.Errorf("theme %q: %w", id, ErrUnknownTheme)
	}
	if theme.Pro && !s.tiers.Features().HasAppThemes {
		return fmt.Errorf("theme %q: %w", id, ErrThemeLocked)
	}
	if s.prefs == nil {
		return nil
	}
	return s.prefs.SetTheme(id)
}

// ResolveProject finds a project by exact id, else by a case-insensitive
// name that matches exactly one project.
func (s *Service) ResolveProject(ref string) (model.Project, error) {
	if p, ok := s.store.Project(ref); ok {
		return p, nil
	}
	var found []model.Project
	for _, p := range s.store.Projects() {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return model.Project{}, fmt.Errorf("project %q: %w", ref, ErrNotFound)
	case 1:
		return found[0], nil
	}
	return model.Project{}, fmt.Errorf("project %q: %w (%d matches, use the id)", ref, ErrAmbiguous, len(found))
}

// ResolveTag finds a tag by exact id, else by unique case-insensitive name.
func (s *Service) ResolveTag(ref string) (model.Tag, error) {
	if t, ok := s.store.Tag(ref); ok {
		return t, nil
	}
	var found []model.Tag
	for _, t := range s.store.Tags() {
		if strings.EqualFold(t.Name, strings.TrimSpace(ref)) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return model.Tag{}, fmt.Errorf("tag %q: %w", ref, ErrNotFound)
	case 1:
		return found[0], nil
	}
	return model.Tag{}, fmt.Errorf("tag %q: %w (%d matches, use the id)", ref, ErrAmbiguous, len(found))
}

// ParseColor accepts a palette name; "" yields the default color.
func ParseColor(s string) (model.AccentColor, error) {
	if strings.TrimSpace(s) == "" {
		return model.DefaultColor, nil
	}
	c, ok := model.ParseAccentColor(s)
	if !ok {
		return "", fmt.Errorf("color %q: %w", s, ErrUnknownColor)
	}
	return c, nil
}

func (s *Service) checkColor(f feature.Features, c model.AccentColor) error {
	if !c.Valid() {
		return fmt.Errorf("color %q: %w", c, ErrUnknownColor)
	}
	if !f.AllowsColor(c) {
		return fmt.Errorf("color %q: %w", c, ErrColorLocked)
	}
	return nil
}

func (s *Service) checkTags(f feature.Features, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if !f.HasFolders {
		return ErrFoldersLocked
	}
	for _, id := range ids {
		if _, ok := s.store.Tag(id); !ok {
			return fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
	}
	return nil
}

package tracker

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/storage"
)

// Options tunes a Store. Zero values select the defaults.
type Options struct {
	// Now is the wall clock, used only for lastStartTime.
	Now func() time.Time
	// NewID generates project and tag ids.
	NewID func() string
	// Warnf reports swallowed persistence failures.
	Warnf func(format string, args ...any)
}

// Store is the single owner of projects, tags and the tag filter. Every
// mutation first reloads the persisted snapshot, so writes made by another
// process sharing the KV are kept, and rewrites it before returning.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	tiers    feature.Source
	now      func() time.Time
	newID    func() string
	warnf    func(format string, args ...any)
	projects []model.Project
	tags     []model.Tag
	selected string
	// degraded is set while the stored snapshot could not be read.
	degraded bool
	// unsaved is set after a failed write until the next successful one.
	unsaved bool
}

// New rehydrates a Store from kv, migrating legacy data and falling back to
// the built-in defaults when nothing usable is stored.
func New(kv storage.KV, tiers feature.Source, opts Options) *Store {
	s := &Store{
		kv:    kv,
		tiers: tiers,
		now:   opts.Now,
		newID: opts.NewID,
		warnf: opts.Warnf,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if s.warnf == nil {
		s.warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		}
	}
	s.load()
	return s
}

// Projects returns a copy of every project in stored order.
func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects, func(model.Project) bool { return true })
}

// FilteredProjects returns the projects carrying the selected tag, or all
// projects when no tag is selected, in stored order.
func (s *Store) FilteredProjects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return cloneProjects(s.projects, func(model.Project) bool { return true })
	}
	return cloneProjects(s.projects, func(p model.Project) bool { return p.HasTag(s.selected) })
}

// RunningProjects returns the projects whose timer is running.
func (s *Store) RunningProjects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects, func(p model.Project) bool { return p.IsRunning })
}

// Project looks up a project by id.
func (s *Store) Project(id string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(id)
	if i < 0 {
		return model.Project{}, false
	}
	return s.projects[i].Clone(), true
}

// Tags returns a copy of every tag.
func (s *Store) Tags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Tag{}, s.tags...)
}

// Tag looks up a tag by id.
func (s *Store) Tag(id string) (model.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.tagIndex(id)
	if i < 0 {
		return model.Tag{}, false
	}
	return s.tags[i], true
}

// SelectedTag returns the active filter, "" meaning all projects.
func (s *Store) SelectedTag() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CreateProject appends a stopped project. A blank name is ignored and
// reported through ok. The project-count cap is not checked here.
func (s *Store) CreateProject(name string, color model.AccentColor, tagIDs ...string) (model.Project, bool) {
	p, err := s.CreateProjectWithin(-1, name, color, tagIDs...)
	return p, err == nil
}

// CreateProjectWithin appends a stopped project unless the store already
// holds limit projects. The count is checked in the same critical section
// as the append. A negative limit means no cap.
func (s *Store) CreateProjectWithin(limit int, name string, color model.AccentColor, tagIDs ...string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	if limit >= 0 && len(s.projects) >= limit {
		return model.Project{}, fmt.Errorf("creating project %q: %w (%d of %d)", name, ErrProjectLimit, len(s.projects), limit)
	}
	p := model.Project{
		ID:          s.newID(),
		Name:        name,
		AccentColor: color,
		TagIDs:      dedupe(tagIDs),
	}
	s.projects = append(s.projects, p)
	s.persistLocked()
	return p.Clone(), nil
}

// UpdateProject merges the set fields of patch into the project with id.
// TimeInSeconds is stored as given.
func (s *Store) UpdateProject(id string, patch model.ProjectPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.projectIndex(id)
	if i < 0 {
		return
	}
	p := &s.projects[i]
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			p.Name = name
		}
	}
	if patch.TimeInSeconds != nil {
		p.TimeInSeconds = *patch.TimeInSeconds
	}
	if patch.AccentColor != nil {
		p.AccentColor = *patch.AccentColor
	}
	if patch.TagIDs != nil {
		p.TagIDs = dedupe(*patch.TagIDs)
	}
	s.persistLocked()
}

// SetProjectTags replaces the tag list of a project.
func (s *Store) SetProjectTags(id string, tagIDs []string) {
	s.UpdateProject(id, model.ProjectPatch{TagIDs: &tagIDs})
}

// DeleteProject removes a project. Tags are unaffected.
func (s *Store) DeleteProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.projectIndex(id)
	if i < 0 {
		return
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	s.persistLocked()
}

// ToggleTimer starts a stopped timer or stops a running one. Starting a
// timer without the multiple-timers capability stops every other timer in
// the same mutation.
func (s *Store) ToggleTimer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.projectIndex(id)
	if i < 0 {
		return
	}
	p := &s.projects[i]
	if p.IsRunning {
		stop(p)
		s.persistLocked()
		return
	}

	if !s.tiers.Features().MultipleTimers {
		for j := range s.projects {
			if j != i && s.projects[j].IsRunning {
				stop(&s.projects[j])
			}
		}
	}
	started := s.now().UnixMilli()
	p.IsRunning = true
	p.LastStartTime = &started
	s.persistLocked()
}

// StopAll stops every running timer.
func (s *Store) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	changed := false
	for i := range s.projects {
		if s.projects[i].IsRunning {
			stop(&s.projects[i])
			changed = true
		}
	}
	if changed {
		s.persistLocked()
	}
}

// AddTime adds delta seconds, which may be negative. The result floors at zero.
func (s *Store) AddTime(id string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.projectIndex(id)
	if i < 0 {
		return
	}
	s.projects[i].TimeInSeconds = max(0, s.projects[i].TimeInSeconds+delta)
	s.persistLocked()
}

// SetTime replaces the accumulated time, flooring at zero.
func (s *Store) SetTime(id string, seconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.projectIndex(id)
	if i < 0 {
		return
	}
	s.projects[i].TimeInSeconds = max(0, seconds)
	s.persistLocked()
}

// CreateTag appends a tag. A blank name is ignored.
func (s *Store) CreateTag(name string, color model.AccentColor) (model.Tag, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	t := model.Tag{ID: s.newID(), Name: name, Color: color}
	s.tags = append(s.tags, t)
	s.persistLocked()
	return t, true
}

// UpdateTag merges the set fields of patch into the tag with id.
func (s *Store) UpdateTag(id string, patch model.TagPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.tagIndex(id)
	if i < 0 {
		return
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			s.tags[i].Name = name
		}
	}
	if patch.Color != nil {
		s.tags[i].Color = *patch.Color
	}
	s.persistLocked()
}

// DeleteTag removes a tag, strips it from every project and clears the
// filter if it was selected.
func (s *Store) DeleteTag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	i := s.tagIndex(id)
	if i < 0 {
		return
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	for j := range s.projects {
		s.projects[j].TagIDs = without(s.projects[j].TagIDs, id)
	}
	if s.selected == id {
		s.selected = ""
	}
	s.persistLocked()
}

// SelectTag sets the filter. An empty id shows all projects; an unknown id
// is ignored.
func (s *Store) SelectTag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	if id != "" && s.tagIndex(id) < 0 {
		return
	}
	s.selected = id
	s.persistLocked()
}

// ClearTagFilter shows all projects.
func (s *Store) ClearTagFilter() { s.SelectTag("") }

func (s *Store) projectIndex(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) tagIndex(id string) int {
	for i := range s.tags {
		if s.tags[i].ID == id {
			return i
		}
	}
	return -1
}

func stop(p *model.Project) {
	p.IsRunning = false
	p.LastStartTime = nil
}

func cloneProjects(ps []model.Project, keep func(model.Project) bool) []model.Project {
	out := make([]model.Project, 0, len(ps))
	for _, p := range ps {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

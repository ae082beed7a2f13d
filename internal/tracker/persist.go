package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/timeprojec/internal/model"
)

// Storage keys of the persisted snapshot.
const (
	ProjectsKey    = "timetracker-projects"
	TagsKey        = "timetracker-tags"
	SelectedTagKey = "timetracker-selected-tag"

	legacyFoldersKey        = "timetracker-folders"
	legacySelectedFolderKey = "timetracker-selected-folder"
)

// storedProject is the on-disk project shape, a superset of the legacy
// folder-based layout.
type storedProject struct {
	model.Project
	FolderID *string `json:"folderId,omitempty"`
}

// legacyFolder is the record stored under the legacy folders key.
type legacyFolder struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Color model.AccentColor `json:"color"`
}

// DefaultProjects is the example list shown on first launch.
func DefaultProjects(newID func() string) []model.Project {
	return []model.Project{{
		ID:            newID(),
		Name:          "Design Work",
		TimeInSeconds: 9312,
		AccentColor:   model.ColorBlue,
		TagIDs:        []string{},
	}}
}

// readState classifies the outcome of reading one persisted piece.
type readState int

const (
	readOK readState = iota
	readMissing
	readCorrupt
	readFailed
)

// load rehydrates the store. Any unreadable piece falls back independently.
// When a piece could not be read at all the fallback stays in memory only,
// so stored data that still exists is never overwritten by defaults.
func (s *Store) load() {
	migrated := false

	projects, state, fromLegacy := s.loadProjects()
	if state != readOK {
		projects = DefaultProjects(s.newID)
		migrated = state != readFailed
	}
	migrated = migrated || fromLegacy
	s.projects = projects

	tags, tagState, fromLegacy := s.loadTags()
	s.tags = tags
	migrated = migrated || fromLegacy

	selected, selState, fromLegacy := s.loadSelected()
	migrated = migrated || fromLegacy
	if selected != "" && s.tagIndex(selected) < 0 {
		selected = ""
		migrated = true
	}
	s.selected = selected

	s.degraded = state == readFailed || tagState == readFailed || selState == readFailed
	if migrated {
		s.persistLocked()
	}
}

// refreshLocked picks up writes made through the same KV by another
// process since the last load. Pieces that are missing or unreadable keep
// their in-memory value. Nothing is reloaded while an earlier write failed,
// since memory is then ahead of storage.
func (s *Store) refreshLocked() {
	if s.unsaved {
		return
	}
	failed := false

	projects, state, _ := s.loadProjects()
	switch state {
	case readOK:
		s.projects = projects
	case readFailed:
		failed = true
	}

	tags, tagState, _ := s.loadTags()
	switch tagState {
	case readOK:
		s.tags = tags
	case readFailed:
		failed = true
	}

	selected, selState, _ := s.loadSelected()
	switch selState {
	case readOK:
		s.selected = selected
	case readFailed:
		failed = true
	}
	if s.selected != "" && s.tagIndex(s.selected) < 0 {
		s.selected = ""
	}

	if !failed {
		s.degraded = false
	}
}

// loadProjects reports how the projects key could be read, and legacy=true
// when at least one record was rewritten from folderId.
func (s *Store) loadProjects() (projects []model.Project, state readState, legacy bool) {
	raw, found, err := s.kv.Get(ProjectsKey)
	if err != nil {
		s.warnf("reading projects: %v", err)
		return nil, readFailed, false
	}
	if !found {
		return nil, readMissing, false
	}
	var stored []storedProject
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.warnf("stored projects are corrupt, using defaults: %v", err)
		return nil, readCorrupt, false
	}

	projects = make([]model.Project, 0, len(stored))
	for _, sp := range stored {
		p := sp.Project
		if p.ID == "" {
			continue
		}
		if p.TagIDs == nil {
			p.TagIDs = []string{}
			if sp.FolderID != nil && *sp.FolderID != "" {
				p.TagIDs = []string{*sp.FolderID}
			}
			legacy = true
		} else if sp.FolderID != nil {
			legacy = true
		}
		p.TagIDs = dedupe(p.TagIDs)
		p.AccentColor = p.AccentColor.OrDefault()
		p.TimeInSeconds = max(0, p.TimeInSeconds)
		if !p.IsRunning || p.LastStartTime == nil {
			// A running record without a start time cannot be ticked.
			p.IsRunning = false
			p.LastStartTime = nil
		}
		projects = append(projects, p)
	}
	return projects, readOK, legacy
}

// loadTags falls back to the legacy folder list when no tags are stored.
func (s *Store) loadTags() (tags []model.Tag, state readState, legacy bool) {
	raw, found, err := s.kv.Get(TagsKey)
	if err != nil {
		s.warnf("reading tags: %v", err)
		return []model.Tag{}, readFailed, false
	}
	if found {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			s.warnf("stored tags are corrupt, starting empty: %v", err)
			return []model.Tag{}, readCorrupt, false
		}
		return normalizeTags(tags), readOK, false
	}

	raw, found, err = s.kv.Get(legacyFoldersKey)
	if err != nil {
		return []model.Tag{}, readFailed, false
	}
	if !found {
		return []model.Tag{}, readMissing, false
	}
	var folders []legacyFolder
	if err := json.Unmarshal([]byte(raw), &folders); err != nil {
		return []model.Tag{}, readCorrupt, false
	}
	tags = make([]model.Tag, 0, len(folders))
	for _, f := range folders {
		tags = append(tags, model.Tag{ID: f.ID, Name: f.Name, Color: f.Color})
	}
	return normalizeTags(tags), readOK, true
}

func (s *Store) loadSelected() (selected string, state readState, legacy bool) {
	raw, found, err := s.kv.Get(SelectedTagKey)
	if err != nil {
		return "", readFailed, false
	}
	if found {
		return decodeString(raw), readOK, false
	}
	raw, found, err = s.kv.Get(legacySelectedFolderKey)
	if err != nil {
		return "", readFailed, false
	}
	if found {
		if id := decodeString(raw); id != "" {
			return id, readOK, true
		}
	}
	return "", readMissing, false
}

// persistLocked writes the whole snapshot. Failures are reported and
// otherwise ignored; the in-memory state stays authoritative. Nothing is
// written while the stored snapshot could not be read.
func (s *Store) persistLocked() {
	if s.degraded {
		s.warnf("stored data could not be read, changes are kept in memory only")
		return
	}
	if err := s.save(); err != nil {
		s.unsaved = true
		s.warnf("%v", err)
		return
	}
	s.unsaved = false
}

func (s *Store) save() error {
	projects, err := json.Marshal(s.projects)
	if err != nil {
		return fmt.Errorf("encoding projects: %w", err)
	}
	tags, err := json.Marshal(s.tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	selected, err := json.Marshal(s.selected)
	if err != nil {
		return fmt.Errorf("encoding selected tag: %w", err)
	}

	if err := s.kv.Set(ProjectsKey, string(projects)); err != nil {
		return fmt.Errorf("saving projects: %w", err)
	}
	if err := s.kv.Set(TagsKey, string(tags)); err != nil {
		return fmt.Errorf("saving tags: %w", err)
	}
	if err := s.kv.Set(SelectedTagKey, string(selected)); err != nil {
		return fmt.Errorf("saving selected tag: %w", err)
	}
	return nil
}

// decodeString accepts both a JSON string and a bare value.
func decodeString(raw string) string {
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	if raw == "null" {
		return ""
	}
	return raw
}

func normalizeTags(tags []model.Tag) []model.Tag {
	out := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID == "" {
			continue
		}
		t.Color = t.Color.OrDefault()
		out = append(out, t)
	}
	return out
}

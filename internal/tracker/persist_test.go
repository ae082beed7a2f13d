package tracker_test

import (
	"strings"
	"testing"

	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/storage"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

func open(kv storage.KV, warnings *[]string) *tracker.Store {
	return tracker.New(kv, feature.Fixed(feature.TierFree), tracker.Options{
		Warnf: func(format string, args ...any) {
			if warnings != nil {
				*warnings = append(*warnings, format)
			}
		},
	})
}

func TestDefaultsOnEmptyStorage(t *testing.T) {
	kv := storage.NewMemory()
	s := open(kv, nil)

	ps := s.Projects()
	if len(ps) != 1 {
		t.Fatalf("len(projects) = %d, want 1 example project", len(ps))
	}
	if ps[0].Name != "Design Work" || ps[0].TimeInSeconds != 9312 || ps[0].IsRunning {
		t.Errorf("example project = %+v", ps[0])
	}
	if len(s.Tags()) != 0 || s.SelectedTag() != "" {
		t.Errorf("tags = %v selected = %q, want none", s.Tags(), s.SelectedTag())
	}
	if _, ok, _ := kv.Get(tracker.ProjectsKey); !ok {
		t.Error("defaults should be persisted")
	}
}

func TestCorruptDataFallsBack(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
	}{
		{"garbage projects", map[string]string{tracker.ProjectsKey: "{not json"}},
		{"wrong shape", map[string]string{tracker.ProjectsKey: `{"id":"x"}`}},
		{"garbage tags", map[string]string{tracker.ProjectsKey: "[]", tracker.TagsKey: "[[["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			for k, v := range tt.data {
				_ = kv.Set(k, v)
			}
			var warnings []string
			s := open(kv, &warnings)
			if len(warnings) == 0 {
				t.Error("expected a warning about corrupt data")
			}
			if s.Tags() == nil {
				t.Error("Tags should never be nil")
			}
			if _, bad := tt.data[tracker.TagsKey]; !bad && len(s.Projects()) != 1 {
				t.Errorf("projects = %+v, want the default list", s.Projects())
			}
		})
	}
}

const legacyProjects = `[
	{"id":"p1","name":"Filed","timeInSeconds":60,"accentColor":"red","isRunning":false,"lastStartTime":null,"folderId":"f1"},
	{"id":"p2","name":"Loose","timeInSeconds":30,"accentColor":"not-a-color","isRunning":false,"lastStartTime":null}
]`

func TestLegacyFolderMigration(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, legacyProjects)
	_ = kv.Set("timetracker-folders", `[{"id":"f1","name":"Clients","color":"green"}]`)
	_ = kv.Set("timetracker-selected-folder", `"f1"`)

	s := open(kv, nil)

	p1, _ := s.Project("p1")
	if len(p1.TagIDs) != 1 || p1.TagIDs[0] != "f1" {
		t.Errorf("p1 tags = %v, want [f1]", p1.TagIDs)
	}
	p2, _ := s.Project("p2")
	if p2.TagIDs == nil || len(p2.TagIDs) != 0 {
		t.Errorf("p2 tags = %#v, want empty", p2.TagIDs)
	}
	if p2.AccentColor != model.DefaultColor {
		t.Errorf("unknown color decoded as %q, want %q", p2.AccentColor, model.DefaultColor)
	}
	tags := s.Tags()
	if len(tags) != 1 || tags[0].ID != "f1" || tags[0].Name != "Clients" || tags[0].Color != model.ColorGreen {
		t.Errorf("tags = %+v", tags)
	}
	if s.SelectedTag() != "f1" {
		t.Errorf("selected = %q, want f1", s.SelectedTag())
	}

	raw, _, _ := kv.Get(tracker.ProjectsKey)
	if strings.Contains(raw, "folderId") {
		t.Errorf("migrated projects still carry folderId: %s", raw)
	}
	if _, ok, _ := kv.Get(tracker.TagsKey); !ok {
		t.Error("migrated tags should be persisted")
	}
}

func TestLegacyMigrationIsIdempotent(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, legacyProjects)
	_ = kv.Set("timetracker-folders", `[{"id":"f1","name":"Clients","color":"green"}]`)

	open(kv, nil)
	first, _, _ := kv.Get(tracker.ProjectsKey)
	firstTags, _, _ := kv.Get(tracker.TagsKey)

	s := open(kv, nil)
	second, _, _ := kv.Get(tracker.ProjectsKey)
	secondTags, _, _ := kv.Get(tracker.TagsKey)

	if first != second || firstTags != secondTags {
		t.Errorf("second load changed data:\n%s\n%s", first, second)
	}
	if p, _ := s.Project("p1"); len(p.TagIDs) != 1 {
		t.Errorf("p1 tags after second load = %v", p.TagIDs)
	}
}

func TestNewTagsWinOverLegacyFolders(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, "[]")
	_ = kv.Set(tracker.TagsKey, `[{"id":"t1","name":"Current","color":"red"}]`)
	_ = kv.Set("timetracker-folders", `[{"id":"f1","name":"Old","color":"green"}]`)

	s := open(kv, nil)
	if tags := s.Tags(); len(tags) != 1 || tags[0].ID != "t1" {
		t.Errorf("tags = %+v, want only t1", tags)
	}
}

func TestDanglingSelectionIsCleared(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, "[]")
	_ = kv.Set(tracker.TagsKey, "[]")
	_ = kv.Set(tracker.SelectedTagKey, `"gone"`)

	s := open(kv, nil)
	if s.SelectedTag() != "" {
		t.Errorf("selected = %q, want cleared", s.SelectedTag())
	}
}

func TestSelectedTagAcceptsBareString(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, "[]")
	_ = kv.Set(tracker.TagsKey, `[{"id":"t1","name":"T","color":"red"}]`)
	_ = kv.Set(tracker.SelectedTagKey, "t1")

	if s := open(kv, nil); s.SelectedTag() != "t1" {
		t.Errorf("selected = %q, want t1", s.SelectedTag())
	}
}

func TestFailedWritesAreSwallowed(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(tracker.ProjectsKey, "[]")
	var warnings []string
	s := open(kv, &warnings)

	kv.FailWrites = true
	p, ok := s.CreateProject("Offline", model.ColorBlue)
	if !ok {
		t.Fatal("create should still succeed in memory")
	}
	s.AddTime(p.ID, 10)

	if got, _ := s.Project(p.ID); got.TimeInSeconds != 10 {
		t.Errorf("in-memory state = %+v", got)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %d, want one per failed write", len(warnings))
	}
}

func TestReadErrorNeverOverwritesStoredData(t *testing.T) {
	kv := storage.NewMemory()
	s := open(kv, nil)
	for _, name := range []string{"A", "B", "C", "D"} {
		mustCreate(t, s, name)
	}
	stored, _, _ := kv.Get(tracker.ProjectsKey)

	kv.FailReads = true
	var warnings []string
	degraded := open(kv, &warnings)
	if ps := degraded.Projects(); len(ps) != 1 || ps[0].Name != "Design Work" {
		t.Errorf("projects during read failure = %+v, want the defaults in memory", ps)
	}
	degraded.CreateProject("Offline", model.ColorBlue)
	if len(warnings) == 0 {
		t.Error("expected a warning about the read failure")
	}

	kv.FailReads = false
	if got, _, _ := kv.Get(tracker.ProjectsKey); got != stored {
		t.Errorf("stored projects changed during read failure:\n%s\n%s", stored, got)
	}
	if ps := open(kv, nil).Projects(); len(ps) != 5 {
		t.Errorf("projects after recovery = %d, want 5", len(ps))
	}

	// Once reads work again the degraded store picks up the stored data.
	degraded.CreateProject("Back", model.ColorBlue)
	if ps := open(kv, nil).Projects(); len(ps) != 6 || ps[5].Name != "Back" {
		t.Errorf("projects = %+v, want the stored five plus Back", ps)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	kv, err := storage.Open(storage.BackendFile, dir)
	if err != nil {
		t.Fatal(err)
	}
	s := open(kv, nil)
	p := mustCreate(t, s, "Persisted")
	s.AddTime(p.ID, 125)

	kv2, err := storage.Open(storage.BackendFile, dir)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := open(kv2, nil).Project(p.ID)
	if !ok || got.TimeInSeconds != 125 {
		t.Errorf("reloaded = %+v, %v", got, ok)
	}
}

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/timeprojec/internal/config"
	"github.com/Tiliavir/timeprojec/internal/feature"
	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/report"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

func testApp(t *testing.T, backend string) *app {
	t.Helper()
	a, err := newApp(config.Config{Storage: config.StorageConfig{Backend: backend, Dir: t.TempDir()}})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.close)
	return a
}

func TestNewAppSeedsDefaults(t *testing.T) {
	for _, backend := range []string{"file", "sqlite", "memory"} {
		a := testApp(t, backend)
		projects := a.store.Projects()
		if len(projects) != 1 || projects[0].Name != "Design Work" {
			t.Errorf("%s: projects = %+v, want the default project", backend, projects)
		}
		if a.tiers.Tier() != feature.TierFree {
			t.Errorf("%s: tier = %s, want free", backend, a.tiers.Tier())
		}
	}
}

func TestNewAppUnknownBackend(t *testing.T) {
	_, err := newApp(config.Config{Storage: config.StorageConfig{Backend: "redis", Dir: t.TempDir()}})
	if err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestNewAppRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := newApp(config.Config{Storage: config.StorageConfig{Backend: "file", Dir: dir}})
	if err != nil {
		t.Fatalf("corrupt file should not be fatal: %v", err)
	}
	defer a.close()
	if len(a.store.Projects()) != 1 {
		t.Errorf("expected the default project after recovery, got %+v", a.store.Projects())
	}
}

func TestAddProject(t *testing.T) {
	a := testApp(t, "memory")

	p, err := addProject(a.svc, "Writing", "green", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.AccentColor != model.ColorGreen || len(p.TagIDs) != 0 {
		t.Errorf("project = %+v", p)
	}

	if _, err := addProject(a.svc, "X", "plaid", nil); !errors.Is(err, tracker.ErrUnknownColor) {
		t.Errorf("unknown color: err = %v", err)
	}
	if _, err := addProject(a.svc, "X", "neon", nil); !errors.Is(err, tracker.ErrColorLocked) {
		t.Errorf("pro color on free: err = %v", err)
	}
	if _, err := addProject(a.svc, "X", "", []string{"Work"}); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("missing tag: err = %v", err)
	}

	if err := feature.SaveTier(a.kv, feature.TierPro); err != nil {
		t.Fatal(err)
	}
	work, err := a.svc.CreateTag("Work", model.ColorRed)
	if err != nil {
		t.Fatal(err)
	}
	p, err = addProject(a.svc, "Client", "neon", []string{"work"})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.TagIDs) != 1 || p.TagIDs[0] != work.ID {
		t.Errorf("tags = %v, want [%s]", p.TagIDs, work.ID)
	}
}

func TestBuildProjectPatch(t *testing.T) {
	a := testApp(t, "memory")
	name, color, clock := "Renamed", "teal", "1:30"

	patch, err := buildProjectPatch(a.svc, &name, &color, &clock, nil)
	if err != nil {
		t.Fatal(err)
	}
	if *patch.Name != "Renamed" || *patch.AccentColor != model.ColorTeal || *patch.TimeInSeconds != 5400 {
		t.Errorf("patch = %+v", patch)
	}
	if patch.TagIDs != nil {
		t.Error("tags were not given and should stay nil")
	}

	empty := ""
	patch, err = buildProjectPatch(a.svc, nil, nil, nil, &empty)
	if err != nil {
		t.Fatal(err)
	}
	if patch.TagIDs == nil || len(*patch.TagIDs) != 0 {
		t.Errorf("empty --tags should clear tags, got %v", patch.TagIDs)
	}

	bad := "soon"
	if _, err := buildProjectPatch(a.svc, nil, nil, &bad, nil); err == nil {
		t.Error("expected an error for a malformed time")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"01:02:03", 3723, false},
		{"2:00", 7200, false},
		{"00:00", 0, false},
		{"0:0:0", 0, false},
		{"0", 0, true},
		{"abc", 0, true},
		{"1:xx", 0, true},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseClock(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b,, c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input should give no items")
	}
}

func TestStoppedBy(t *testing.T) {
	before := []model.Project{{ID: "a"}, {ID: "b"}}
	after := []model.Project{{ID: "b"}, {ID: "c"}}
	got := stoppedBy(before, after)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("stoppedBy = %+v", got)
	}
}

func TestPrintProjects(t *testing.T) {
	tags := []model.Tag{{ID: "t1", Name: "Client"}}
	projects := []model.Project{
		{ID: "p1", Name: "Design", TimeInSeconds: 3661, AccentColor: model.ColorBlue, IsRunning: true, TagIDs: []string{"t1", "gone"}},
		{ID: "p2", Name: "Ops", TimeInSeconds: 60, AccentColor: model.ColorGreen},
	}

	var buf bytes.Buffer
	printProjects(&buf, projects, tags, true)
	out := buf.String()
	for _, want := range []string{"▶ Design", "01:01:01", "[Client]", "(p1)", "Total", "01:02:01"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gone") {
		t.Errorf("dangling tag id leaked into output:\n%s", out)
	}

	buf.Reset()
	printProjects(&buf, nil, nil, false)
	if !strings.Contains(buf.String(), "No projects found.") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestPrintTags(t *testing.T) {
	tags := []model.Tag{{ID: "t1", Name: "Client", Color: model.ColorRed}, {ID: "t2", Name: "Home"}}
	projects := []model.Project{{TagIDs: []string{"t1"}}, {TagIDs: []string{"t1", "t2"}}}

	var buf bytes.Buffer
	printTags(&buf, tags, projects, "t2")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "  Client") || !strings.Contains(lines[0], "2 project(s)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "* Home") || !strings.Contains(lines[1], "1 project(s)") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteStatus(t *testing.T) {
	a := testApp(t, "memory")
	var buf bytes.Buffer
	writeStatus(&buf, a, time.Now())
	for _, want := range []string{"No active timer.", "2h 35m across 1 of 10", "Tier: free"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("idle status missing %q:\n%s", want, buf.String())
		}
	}

	p := a.store.Projects()[0]
	if _, err := a.svc.ToggleTimer(p.ID); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	writeStatus(&buf, a, time.Now())
	if !strings.Contains(buf.String(), "Running:\n  Design Work") {
		t.Errorf("running status:\n%s", buf.String())
	}
}

func TestWriteTier(t *testing.T) {
	var buf bytes.Buffer
	writeTier(&buf, feature.TierPro)
	for _, want := range []string{"Tier: pro", "up to 100", "Multiple timers: yes", "Colors:          36"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("tier output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestBuildReportHonorsFilter(t *testing.T) {
	a := testApp(t, "memory")
	if err := feature.SaveTier(a.kv, feature.TierPro); err != nil {
		t.Fatal(err)
	}
	work, _ := a.svc.CreateTag("Work", model.ColorRed)
	if _, err := a.svc.CreateProject("Client", model.ColorBlue, work.ID); err != nil {
		t.Fatal(err)
	}
	if err := a.svc.SelectTag(work.ID); err != nil {
		t.Fatal(err)
	}

	r := buildReport(a, false, time.Now())
	if r.Filter != "Work" || len(r.Projects) != 1 || r.Projects[0].Name != "Client" {
		t.Errorf("filtered report = %+v", r)
	}
	if all := buildReport(a, true, time.Now()); all.Filter != "" || len(all.Projects) != 2 {
		t.Errorf("unfiltered report = %+v", all)
	}
}

func TestWriteReportToFile(t *testing.T) {
	a := testApp(t, "memory")
	path := filepath.Join(t.TempDir(), "out.md")
	if err := writeReport(report.FormatMarkdown, path, buildReport(a, true, time.Now())); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Design Work") {
		t.Errorf("file content = %q", data)
	}
}

func TestSyncRange(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	end := func(d int) time.Time { return time.Date(2026, 3, d, 23, 59, 59, 0, time.UTC) }

	tests := []struct {
		name           string
		date, from, to string
		wantFrom       time.Time
		wantTo         time.Time
		wantErr        bool
	}{
		{name: "default today", wantFrom: day(4), wantTo: end(4)},
		{name: "single date", date: "2026-03-02", wantFrom: day(2), wantTo: end(2)},
		{name: "from only", from: "2026-03-01", wantFrom: day(1), wantTo: end(4)},
		{name: "from and to", from: "2026-03-01", to: "2026-03-03", wantFrom: day(1), wantTo: end(3)},
		{name: "to without from", to: "2026-03-03", wantErr: true},
		{name: "to before from", from: "2026-03-03", to: "2026-03-01", wantErr: true},
		{name: "bad date", date: "03/02/2026", wantErr: true},
	}
	for _, tt := range tests {
		from, to, err := syncRange(now, tt.date, tt.from, tt.to)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if !from.Equal(tt.wantFrom) || !to.Equal(tt.wantTo) {
			t.Errorf("%s: got %s → %s, want %s → %s", tt.name, from, to, tt.wantFrom, tt.wantTo)
		}
	}
}

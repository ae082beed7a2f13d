package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/report"
)

var generated = time.Date(2026, 2, 27, 17, 0, 0, 0, time.UTC)

func sample() report.Report {
	tags := []model.Tag{{ID: "t1", Name: "Client", Color: model.ColorRed}}
	projects := []model.Project{
		{ID: "p1", Name: "Design, phase 1", TimeInSeconds: 3661, AccentColor: model.ColorBlue, TagIDs: []string{"t1", "gone"}},
		{ID: "p2", Name: "Ops", TimeInSeconds: 60, AccentColor: model.ColorGreen, IsRunning: true, TagIDs: []string{}},
	}
	return report.Build(projects, tags, "", true, generated)
}

func TestBuild(t *testing.T) {
	r := sample()
	if len(r.Projects) != 2 {
		t.Fatalf("rows = %d, want 2", len(r.Projects))
	}
	if r.Projects[0].Time != "01:01:01" || r.Projects[0].Duration != "1h 1m" {
		t.Errorf("row 0 = %+v", r.Projects[0])
	}
	if len(r.Projects[0].Tags) != 1 || r.Projects[0].Tags[0] != "Client" {
		t.Errorf("dangling tag ids should be dropped, got %v", r.Projects[0].Tags)
	}
	if r.TotalSeconds != 3721 || r.Total != "01:02:01" {
		t.Errorf("total = %d %q", r.TotalSeconds, r.Total)
	}

	short := report.Build(nil, nil, "", false, generated)
	if short.Total != "00:00" || short.Projects == nil {
		t.Errorf("empty report = %+v", short)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Format
		wantErr bool
	}{
		{"csv", report.FormatCSV, false},
		{"JSON", report.FormatJSON, false},
		{"markdown", report.FormatMarkdown, false},
		{"yml", report.FormatYAML, false},
		{"pdf", report.FormatPDF, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		got, err := report.ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, report.FormatCSV, sample()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2", len(lines))
	}
	if want := `p1,"Design, phase 1",01:01:01,3661,blue,false,Client`; lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, report.FormatJSON, sample()); err != nil {
		t.Fatal(err)
	}
	var got report.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.TotalSeconds != 3721 || len(got.Projects) != 2 || !got.Projects[1].Running {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, report.FormatYAML, sample()); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Projects []struct {
			Name string `yaml:"name"`
			Time string `yaml:"time"`
		} `yaml:"projects"`
		Total string `yaml:"total"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got.Projects) != 2 || got.Projects[0].Name != "Design, phase 1" || got.Total != "01:02:01" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, report.FormatMarkdown, sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"| Project | Time |", "| Ops | 00:01:00 |  | running |", "**01:02:01**"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	_ = report.WriteMarkdown(&buf, report.Build(nil, nil, "Client", true, generated))
	if !strings.Contains(buf.String(), "No projects found.") {
		t.Errorf("empty markdown = %q", buf.String())
	}
}

func TestWritePDFNeedsFile(t *testing.T) {
	if err := report.Write(&bytes.Buffer{}, report.FormatPDF, sample()); err == nil {
		t.Error("expected an error for pdf on a stream")
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.pdf")
	if err := report.WritePDF(path, sample()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("file does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

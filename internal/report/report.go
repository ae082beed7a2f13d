package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatYAML, FormatPDF}

// ParseFormat accepts a format name in any case; "markdown" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv, json, md, yaml or pdf)", s)
}

// Row is one project in a report.
type Row struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Time     string   `json:"time" yaml:"time"`
	Seconds  int64    `json:"seconds" yaml:"seconds"`
	Color    string   `json:"color" yaml:"color"`
	Running  bool     `json:"running" yaml:"running"`
	Tags     []string `json:"tags" yaml:"tags"`
	Duration string   `json:"duration" yaml:"duration"`
}

// Report is the exported view of a project list.
type Report struct {
	Generated    time.Time `json:"generated" yaml:"generated"`
	Filter       string    `json:"filter,omitempty" yaml:"filter,omitempty"`
	Projects     []Row     `json:"projects" yaml:"projects"`
	TotalSeconds int64     `json:"total_seconds" yaml:"total_seconds"`
	Total        string    `json:"total" yaml:"total"`
}

// Build assembles a report from projects in the given order. Tag ids that
// no longer resolve are left out. filter names the active tag, if any.
func Build(projects []model.Project, tags []model.Tag, filter string, showSeconds bool, now time.Time) Report {
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	r := Report{Generated: now, Filter: filter, Projects: make([]Row, 0, len(projects))}
	for _, p := range projects {
		row := Row{
			ID:       p.ID,
			Name:     p.Name,
			Time:     timecalc.FormatTime(p.TimeInSeconds, showSeconds),
			Seconds:  p.TimeInSeconds,
			Color:    string(p.AccentColor),
			Running:  p.IsRunning,
			Tags:     []string{},
			Duration: timecalc.FormatDuration(p.TimeInSeconds),
		}
		for _, id := range p.TagIDs {
			if name, ok := names[id]; ok {
				row.Tags = append(row.Tags, name)
			}
		}
		r.Projects = append(r.Projects, row)
		r.TotalSeconds += p.TimeInSeconds
	}
	r.Total = timecalc.FormatTime(r.TotalSeconds, showSeconds)
	return r
}

// Write encodes r to w. PDF needs a file and goes through WritePDF.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatPDF:
		return fmt.Errorf("pdf output needs a file, use --out")
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteCSV writes a header and one line per project.
func WriteCSV(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, "id,project,time,seconds,color,running,tags"); err != nil {
		return err
	}
	for _, p := range r.Projects {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%d,%s,%t,%s\n",
			csvEscape(p.ID),
			csvEscape(p.Name),
			csvEscape(p.Time),
			p.Seconds,
			csvEscape(p.Color),
			p.Running,
			csvEscape(strings.Join(p.Tags, ";")),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteYAML writes r as a YAML document.
func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteMarkdown writes a pipe table followed by the total.
func WriteMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	title := "Projects"
	if r.Filter != "" {
		title += " – " + r.Filter
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(r.Projects) == 0 {
		b.WriteString("No projects found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("| Project | Time | Tags | Status |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, p := range r.Projects {
		status := ""
		if p.Running {
			status = "running"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", mdEscape(p.Name), p.Time, mdEscape(strings.Join(p.Tags, ", ")), status)
	}
	fmt.Fprintf(&b, "| **Total** | **%s** | | |\n", r.Total)
	_, err := io.WriteString(w, b.String())
	return err
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

var (
	projectColor       string
	projectTags        string
	projectInteractive bool
	projectListAll     bool

	editName  string
	editColor string
	editTime  string
	editTags  string
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects matching the tag filter",
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <project>",
	Short: "Rename, recolor, retag or set the time of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectRmCmd = &cobra.Command{
	Use:     "rm <project>",
	Aliases: []string{"delete"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectRm,
}

func init() {
	projectAddCmd.Flags().StringVar(&projectColor, "color", "", "Accent color (default blue)")
	projectAddCmd.Flags().StringVar(&projectTags, "tags", "", "Comma-separated tag ids or names")
	projectAddCmd.Flags().BoolVarP(&projectInteractive, "interactive", "i", false, "Fill in the project with a form")

	projectListCmd.Flags().BoolVar(&projectListAll, "all", false, "Ignore the tag filter")

	projectEditCmd.Flags().StringVar(&editName, "name", "", "New name")
	projectEditCmd.Flags().StringVar(&editColor, "color", "", "New accent color")
	projectEditCmd.Flags().StringVar(&editTime, "time", "", "New accumulated time (HH:MM[:SS])")
	projectEditCmd.Flags().StringVar(&editTags, "tags", "", "Replace tags (comma-separated ids or names, empty to clear)")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectRmCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	color := projectColor
	tagRefs := splitList(projectTags)

	if projectInteractive {
		if err := projectForm(a.svc, &name, &color, &tagRefs); err != nil {
			userError(err)
		}
	}

	p, err := addProject(a.svc, name, color, tagRefs)
	if err != nil {
		userError(err)
	}
	fmt.Printf("Created project %q (%s)\n", p.Name, p.ID)
	return nil
}

// addProject parses the textual inputs of "project add" and creates the project.
func addProject(svc *tracker.Service, name, color string, tagRefs []string) (model.Project, error) {
	c, err := tracker.ParseColor(color)
	if err != nil {
		return model.Project{}, err
	}
	ids, err := resolveTags(svc, tagRefs)
	if err != nil {
		return model.Project{}, err
	}
	return svc.CreateProject(name, c, ids...)
}

// projectForm asks for the name, color and tags of a new project. Only the
// colors and tags the current tier permits are offered.
func projectForm(svc *tracker.Service, name, color *string, tagRefs *[]string) error {
	features := svc.Features()
	if *color == "" {
		*color = string(model.DefaultColor)
	}

	colorOpts := make([]huh.Option[string], 0, len(features.AvailableColors))
	for _, c := range features.AvailableColors {
		colorOpts = append(colorOpts, huh.NewOption(string(c), string(c)))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("Design Work").
			Value(name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return tracker.ErrEmptyName
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Color").
			Options(colorOpts...).
			Value(color),
	}

	tags := svc.Store().Tags()
	if features.HasFolders && len(tags) > 0 {
		tagOpts := make([]huh.Option[string], 0, len(tags))
		for _, t := range tags {
			tagOpts = append(tagOpts, huh.NewOption(t.Name, t.ID))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Tags").
			Options(tagOpts...).
			Value(tagRefs))
	}

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	projects := a.store.FilteredProjects()
	if projectListAll {
		projects = a.store.Projects()
	} else if sel := a.store.SelectedTag(); sel != "" {
		if t, ok := a.store.Tag(sel); ok {
			fmt.Printf("Tag: %s\n", t.Name)
		}
	}
	printProjects(os.Stdout, projects, a.store.Tags(), a.prefs.ShowSeconds())
	return nil
}

// printProjects writes one line per project: a running marker, the name,
// the formatted time, tag names and the id.
func printProjects(w io.Writer, projects []model.Project, tags []model.Tag, showSeconds bool) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	var total int64
	for _, p := range projects {
		total += p.TimeInSeconds
		marker := " "
		if p.IsRunning {
			marker = "▶"
		}
		var tagNames []string
		for _, id := range p.TagIDs {
			if n, ok := names[id]; ok {
				tagNames = append(tagNames, n)
			}
		}
		tagCol := ""
		if len(tagNames) > 0 {
			tagCol = "  [" + strings.Join(tagNames, ", ") + "]"
		}
		fmt.Fprintf(w, "%s %-24s %s  %-8s%s  (%s)\n",
			marker, p.Name, timecalc.FormatTime(p.TimeInSeconds, showSeconds), p.AccentColor, tagCol, p.ID)
	}
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "  %-24s %s\n", "Total", timecalc.FormatTime(total, showSeconds))
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	p, err := a.svc.ResolveProject(args[0])
	if err != nil {
		userError(err)
	}

	flags := cmd.Flags()
	patch, err := buildProjectPatch(a.svc,
		optional(flags.Changed("name"), editName),
		optional(flags.Changed("color"), editColor),
		optional(flags.Changed("time"), editTime),
		optional(flags.Changed("tags"), editTags),
	)
	if err != nil {
		userError(err)
	}
	if err := a.svc.UpdateProject(p.ID, patch); err != nil {
		userError(err)
	}

	updated, _ := a.store.Project(p.ID)
	fmt.Printf("Updated project %q: %s\n", updated.Name, timecalc.FormatTime(updated.TimeInSeconds, true))
	return nil
}

// buildProjectPatch turns the edit flags into a patch. Nil arguments were
// not given on the command line.
func buildProjectPatch(svc *tracker.Service, name, color, clock, tags *string) (model.ProjectPatch, error) {
	var patch model.ProjectPatch
	if name != nil {
		patch.Name = name
	}
	if color != nil {
		c, err := tracker.ParseColor(*color)
		if err != nil {
			return patch, err
		}
		patch.AccentColor = &c
	}
	if clock != nil {
		secs, err := parseClock(*clock)
		if err != nil {
			return patch, err
		}
		patch.TimeInSeconds = &secs
	}
	if tags != nil {
		ids, err := resolveTags(svc, splitList(*tags))
		if err != nil {
			return patch, err
		}
		patch.TagIDs = &ids
	}
	return patch, nil
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	p, err := a.svc.ResolveProject(args[0])
	if err != nil {
		userError(err)
	}
	if err := a.svc.DeleteProject(p.ID); err != nil {
		userError(err)
	}
	fmt.Printf("Deleted project %q\n", p.Name)
	return nil
}

func resolveTags(svc *tracker.Service, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		t, err := svc.ResolveTag(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optional(set bool, v string) *string {
	if !set {
		return nil
	}
	return &v
}

// parseClock parses an absolute HH:MM[:SS] value. Unlike timecalc.ParseTime
// it rejects malformed input instead of treating it as zero.
func parseClock(s string) (int64, error) {
	secs := timecalc.ParseTime(s)
	if secs == 0 && (!strings.Contains(s, ":") || strings.Trim(s, "0: ") != "") {
		return 0, fmt.Errorf("invalid time %q, want HH:MM or HH:MM:SS", s)
	}
	return secs, nil
}

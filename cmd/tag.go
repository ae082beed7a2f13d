package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

var (
	tagColor     string
	tagEditName  string
	tagEditColor string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags and the project filter (pro)",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagEditCmd = &cobra.Command{
	Use:   "edit <tag>",
	Short: "Rename or recolor a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagEdit,
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <tag>",
	Short: "Delete a tag and remove it from every project",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagRm,
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags",
	Args:    cobra.NoArgs,
	RunE:    runTagList,
}

var tagSelectCmd = &cobra.Command{
	Use:   "select <tag>",
	Short: "Only show projects carrying this tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagSelect,
}

var tagClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Show all projects again",
	Args:  cobra.NoArgs,
	RunE:  runTagClear,
}

func init() {
	tagAddCmd.Flags().StringVar(&tagColor, "color", "", "Tag color (default blue)")
	tagEditCmd.Flags().StringVar(&tagEditName, "name", "", "New name")
	tagEditCmd.Flags().StringVar(&tagEditColor, "color", "", "New color")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagEditCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagSelectCmd)
	tagCmd.AddCommand(tagClearCmd)
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	color, err := tracker.ParseColor(tagColor)
	if err != nil {
		userError(err)
	}

	a := openApp()
	defer a.close()

	t, err := a.svc.CreateTag(args[0], color)
	if err != nil {
		userError(err)
	}
	fmt.Printf("Created tag %q (%s)\n", t.Name, t.ID)
	return nil
}

func runTagEdit(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	t, err := a.svc.ResolveTag(args[0])
	if err != nil {
		userError(err)
	}

	var patch model.TagPatch
	if cmd.Flags().Changed("name") {
		patch.Name = &tagEditName
	}
	if cmd.Flags().Changed("color") {
		c, err := tracker.ParseColor(tagEditColor)
		if err != nil {
			userError(err)
		}
		patch.Color = &c
	}
	if err := a.svc.UpdateTag(t.ID, patch); err != nil {
		userError(err)
	}
	updated, _ := a.store.Tag(t.ID)
	fmt.Printf("Updated tag %q\n", updated.Name)
	return nil
}

func runTagRm(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	t, err := a.svc.ResolveTag(args[0])
	if err != nil {
		userError(err)
	}
	if err := a.svc.DeleteTag(t.ID); err != nil {
		userError(err)
	}
	fmt.Printf("Deleted tag %q\n", t.Name)
	return nil
}

func runTagList(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	printTags(os.Stdout, a.store.Tags(), a.store.Projects(), a.store.SelectedTag())
	return nil
}

// printTags lists tags with their project counts, marking the active filter.
func printTags(w io.Writer, tags []model.Tag, projects []model.Project, selected string) {
	if len(tags) == 0 {
		fmt.Fprintln(w, "No tags found.")
		return
	}
	for _, t := range tags {
		n := 0
		for _, p := range projects {
			if p.HasTag(t.ID) {
				n++
			}
		}
		marker := " "
		if t.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-20s %-8s %d project(s)  (%s)\n", marker, t.Name, t.Color, n, t.ID)
	}
}

func runTagSelect(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	t, err := a.svc.ResolveTag(args[0])
	if err != nil {
		userError(err)
	}
	if err := a.svc.SelectTag(t.ID); err != nil {
		userError(err)
	}
	fmt.Printf("Filtering by tag %q\n", t.Name)
	return nil
}

func runTagClear(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	a.store.ClearTagFilter()
	fmt.Println("Showing all projects.")
	return nil
}

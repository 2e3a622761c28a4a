package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
	"github.com/folionote/folio/internal/pkg/textutil"
	"github.com/folionote/folio/internal/render"
)

func newNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes"},
		Short:   "Manage project notes",
	}

	cmd.AddCommand(newNoteListCommand())
	cmd.AddCommand(newNoteShowCommand())
	cmd.AddCommand(newNoteAddCommand())
	cmd.AddCommand(newNoteEditCommand())
	cmd.AddCommand(newNoteDeleteCommand())
	cmd.AddCommand(newNotePinCommand())
	cmd.AddCommand(newNoteArchiveCommand())
	cmd.AddCommand(newNoteExportCommand())

	return cmd
}

func newNoteListCommand() *cobra.Command {
	var (
		projectID int64
		noteType  string
		search    string
		pinned    bool
		archived  bool
		page      int
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			filter := &client.NoteFilter{
				ProjectID: projectID,
				NoteType:  noteType,
				Search:    search,
				Page:      page,
				PageSize:  pageSize,
			}
			if cmd.Flags().Changed("pinned") {
				filter.IsPinned = &pinned
			}
			if cmd.Flags().Changed("archived") {
				filter.IsArchived = &archived
			}

			list, err := ctx.Client.ListNotes(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if len(list.Items) == 0 {
				fmt.Println("No notes found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tPROJECT\tTYPE\tTITLE\tFLAGS\tUPDATED")
			for _, n := range list.Items {
				flags := ""
				if n.IsPinned {
					flags += "📌"
				}
				if n.IsArchived {
					flags += "🗄"
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
					n.ID, n.ProjectID, n.NoteType, n.Title, flags,
					n.UpdatedAt.Format("2006-01-02"))
			}
			w.Flush()

			fmt.Printf("\nPage %d, %d of %d notes\n", list.Page, len(list.Items), list.TotalCount)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "Filter by project id")
	cmd.Flags().StringVar(&noteType, "type", "", "Filter by note type (learn, change, research)")
	cmd.Flags().StringVar(&search, "search", "", "Search in title and content")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "Filter by pinned flag")
	cmd.Flags().BoolVar(&archived, "archived", false, "Filter by archived flag")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")

	return cmd
}

func newNoteShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NOTE_ID",
		Short: "Show a note rendered as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			note, err := ctx.Client.GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			markdown := fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Content)
			return printMarkdown(ctx.Config, markdown)
		},
	}
}

func newNoteAddCommand() *cobra.Command {
	var (
		projectID int64
		title     string
		noteType  string
		tags      string
		file      string
		autoTag   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note to a project",
		Long: `Add a note to a project. Content is read from --file, or from
stdin when --file is "-" or omitted and stdin is piped.

Inline #hashtags in the content become tags unless --auto-tag=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			content, err := readContent(file)
			if err != nil {
				return err
			}

			if autoTag {
				tags = mergeTagList(tags, textutil.ExtractTags(content))
			}

			note, err := ctx.Client.CreateNote(cmd.Context(), client.NoteCreate{
				ProjectID: projectID,
				Title:     title,
				Content:   content,
				NoteType:  noteType,
				Tags:      tags,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created note %d (%s)\n", note.ID, note.Title)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "Project id")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringVar(&noteType, "type", "general", "Note type (learn, change, research, general)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from file ('-' for stdin)")
	cmd.Flags().BoolVar(&autoTag, "auto-tag", true, "Extract inline #hashtags from content as tags")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newNoteEditCommand() *cobra.Command {
	var (
		title    string
		noteType string
		tags     string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "edit NOTE_ID",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			var update client.NoteUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("type") {
				update.NoteType = &noteType
			}
			if cmd.Flags().Changed("tags") {
				update.Tags = &tags
			}
			if cmd.Flags().Changed("file") {
				content, err := readContent(file)
				if err != nil {
					return err
				}
				update.Content = &content
			}

			note, err := ctx.Client.UpdateNote(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Updated note %d (%s)\n", note.ID, note.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&noteType, "type", "", "New note type")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read new content from file ('-' for stdin)")

	return cmd
}

func newNoteDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NOTE_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			if err := ctx.Client.DeleteNote(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("✓ Deleted note %d\n", id)
			return nil
		},
	}
}

func newNotePinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pin NOTE_ID",
		Short: "Toggle a note's pinned flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			note, err := ctx.Client.PinNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			if note.IsPinned {
				fmt.Printf("✓ Pinned note %d\n", note.ID)
			} else {
				fmt.Printf("✓ Unpinned note %d\n", note.ID)
			}
			return nil
		},
	}
}

func newNoteArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive NOTE_ID",
		Short: "Toggle a note's archived flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			note, err := ctx.Client.ArchiveNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			if note.IsArchived {
				fmt.Printf("✓ Archived note %d\n", note.ID)
			} else {
				fmt.Printf("✓ Unarchived note %d\n", note.ID)
			}
			return nil
		},
	}
}

func newNoteExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export NOTE_ID",
		Short: "Export a note as sanitized HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			note, err := ctx.Client.GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			markdown := fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Content)
			doc := render.Document(note.Title, markdown)

			if output == "" || output == "-" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("✓ Exported note %d to %s\n", note.ID, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to file ('-' for stdout)")

	return cmd
}

// mergeTagList folds extracted tags into a comma-separated tag string.
func mergeTagList(explicit string, extracted []string) string {
	var tags []string
	for _, tag := range strings.Split(explicit, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(textutil.MergeTags(tags, extracted), ",")
}

// readContent reads note content from a file, or stdin for "-"/empty.
func readContent(file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

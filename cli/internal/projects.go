package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
)

func newProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage portfolio projects",
	}

	cmd.AddCommand(newProjectListCommand())
	cmd.AddCommand(newProjectShowCommand())
	cmd.AddCommand(newProjectCreateCommand())
	cmd.AddCommand(newProjectUpdateCommand())
	cmd.AddCommand(newProjectDeleteCommand())
	cmd.AddCommand(newProjectStatsCommand())

	return cmd
}

func newProjectListCommand() *cobra.Command {
	var (
		status     string
		visibility string
		search     string
		tags       []string
		page       int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			list, err := ctx.Client.ListProjects(cmd.Context(), &client.ProjectFilter{
				Status:     status,
				Visibility: visibility,
				Search:     search,
				Tags:       tags,
				Page:       page,
				PageSize:   pageSize,
			})
			if err != nil {
				return err
			}

			if len(list.Items) == 0 {
				fmt.Println("No projects found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tVISIBILITY\tVIEWS\tUPDATED")
			for _, p := range list.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					p.ID, p.Title, p.Status, p.Visibility, p.ViewCount,
					p.UpdatedAt.Format("2006-01-02"))
			}
			w.Flush()

			fmt.Printf("\nPage %d, %d of %d projects\n", list.Page, len(list.Items), list.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, active, completed, archived)")
	cmd.Flags().StringVar(&visibility, "visibility", "", "Filter by visibility (private, public)")
	cmd.Flags().StringVar(&search, "search", "", "Search in title and description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Filter by tag (repeatable)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")

	return cmd
}

func newProjectShowCommand() *cobra.Command {
	var recordView bool

	cmd := &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			project, err := ctx.Client.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			if recordView {
				if viewErr := ctx.Client.RecordProjectView(cmd.Context(), id); viewErr != nil {
					ctx.Logger.Debug("failed to record view", "error", viewErr.Error())
				}
			}

			var b strings.Builder
			fmt.Fprintf(&b, "# %s\n\n", project.Title)
			if project.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", project.Description)
			}
			fmt.Fprintf(&b, "- **Status**: %s\n", project.Status)
			fmt.Fprintf(&b, "- **Visibility**: %s\n", project.Visibility)
			if len(project.TechStack) > 0 {
				fmt.Fprintf(&b, "- **Tech stack**: %s\n", strings.Join(project.TechStack, ", "))
			}
			if len(project.Tags) > 0 {
				fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(project.Tags, ", "))
			}
			fmt.Fprintf(&b, "- **Views**: %d, **Likes**: %d\n", project.ViewCount, project.LikeCount)

			return printMarkdown(ctx.Config, b.String())
		},
	}

	cmd.Flags().BoolVar(&recordView, "record-view", false, "Record a view for this project")

	return cmd
}

func newProjectCreateCommand() *cobra.Command {
	var (
		title       string
		description string
		status      string
		visibility  string
		techStack   []string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			project, err := ctx.Client.CreateProject(cmd.Context(), client.ProjectCreate{
				Title:       title,
				Description: description,
				Status:      status,
				Visibility:  visibility,
				TechStack:   techStack,
				Tags:        tags,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created project %d (%s)\n", project.ID, project.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Project title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&status, "status", "draft", "Project status")
	cmd.Flags().StringVar(&visibility, "visibility", "private", "Project visibility")
	cmd.Flags().StringSliceVar(&techStack, "tech", nil, "Tech stack entry (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newProjectUpdateCommand() *cobra.Command {
	var (
		title       string
		description string
		status      string
		visibility  string
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT_ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			// Only flags the user passed become part of the update.
			var update client.ProjectUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("status") {
				update.Status = &status
			}
			if cmd.Flags().Changed("visibility") {
				update.Visibility = &visibility
			}

			project, err := ctx.Client.UpdateProject(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Updated project %d (%s)\n", project.ID, project.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&visibility, "visibility", "", "New visibility")

	return cmd
}

func newProjectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete PROJECT_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a project and its notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			if err := ctx.Client.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("✓ Deleted project %d\n", id)
			return nil
		},
	}
}

func newProjectStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			stats, err := ctx.Client.ProjectStats(cmd.Context())
			if err != nil {
				return err
			}

			for key, value := range stats {
				fmt.Printf("%s: %v\n", key, value)
			}
			return nil
		},
	}
}

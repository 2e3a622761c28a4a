package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
	"github.com/folionote/folio/internal/pkg/timeutil"
)

func newRepoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repo",
		Aliases: []string{"repos"},
		Short:   "Manage GitHub repositories linked to projects",
	}

	cmd.AddCommand(newRepoListCommand())
	cmd.AddCommand(newRepoShowCommand())
	cmd.AddCommand(newRepoStatsCommand())
	cmd.AddCommand(newRepoLinkCommand())
	cmd.AddCommand(newRepoUnlinkCommand())
	cmd.AddCommand(newRepoSyncCommand())
	cmd.AddCommand(newRepoCommitsCommand())

	return cmd
}

func newRepoListCommand() *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List linked repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			repos, err := ctx.Client.ListRepositories(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			if len(repos) == 0 {
				fmt.Println("No repositories linked")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tREPOSITORY\tLANGUAGE\tSTARS\tLAST SYNC")
			for _, r := range repos {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					r.ID, r.FullName, r.Language, r.Stars,
					timeutil.Relative(r.LastSyncAt))
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "Filter by project id")

	return cmd
}

func newRepoShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show REPO_ID",
		Short: "Show one linked repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid repository id %q", args[0])
			}

			repo, err := ctx.Client.GetRepository(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "Repository:\t%s\n", repo.FullName)
			fmt.Fprintf(w, "Project:\t%d\n", repo.ProjectID)
			if repo.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", repo.Description)
			}
			if repo.Language != "" {
				fmt.Fprintf(w, "Language:\t%s\n", repo.Language)
			}
			fmt.Fprintf(w, "Stars:\t%d\n", repo.Stars)
			fmt.Fprintf(w, "Forks:\t%d\n", repo.Forks)
			fmt.Fprintf(w, "Last sync:\t%s\n", repo.LastSyncAt.Format("2006-01-02 15:04"))
			w.Flush()

			return nil
		},
	}
}

func newRepoStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats REPO_ID",
		Short: "Show commit and language statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid repository id %q", args[0])
			}

			stats, err := ctx.Client.RepositoryStats(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("Total commits: %d\n", stats.TotalCommits)
			if len(stats.Languages) > 0 {
				fmt.Println("\nLanguages (bytes):")
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
				for lang, size := range stats.Languages {
					fmt.Fprintf(w, "  %s\t%d\n", lang, size)
				}
				w.Flush()
			}

			return nil
		},
	}
}

func newRepoLinkCommand() *cobra.Command {
	var (
		projectID int64
		owner     string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a GitHub repository to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			repo, err := ctx.Client.LinkRepository(cmd.Context(), client.RepositoryCreate{
				ProjectID: projectID,
				Owner:     owner,
				Name:      name,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Linked %s to project %d\n", repo.FullName, repo.ProjectID)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "Project id")
	cmd.Flags().StringVar(&owner, "owner", "", "GitHub repository owner")
	cmd.Flags().StringVar(&name, "name", "", "GitHub repository name")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newRepoUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink REPO_ID",
		Short: "Unlink a repository from its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid repository id %q", args[0])
			}

			if err := ctx.Client.UnlinkRepository(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("✓ Unlinked repository %d\n", id)
			return nil
		},
	}
}

func newRepoSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync REPO_ID",
		Short: "Pull repository metadata and commits from GitHub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid repository id %q", args[0])
			}

			repo, err := ctx.Client.SyncRepository(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Synced %s (%d stars, last sync %s)\n",
				repo.FullName, repo.Stars, repo.LastSyncAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newRepoCommitsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "commits REPO_ID",
		Short: "List synced commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid repository id %q", args[0])
			}

			commits, err := ctx.Client.RepositoryCommits(cmd.Context(), id, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "SHA\tWHEN\tAUTHOR\tMESSAGE")
			for _, c := range commits {
				sha := c.SHA
				if len(sha) > 8 {
					sha = sha[:8]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					sha, c.CommittedAt.Format("2006-01-02"), c.AuthorName, c.Message)
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of commits to show")

	return cmd
}

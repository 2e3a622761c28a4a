package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
	"github.com/folionote/folio/internal/pkg/timeutil"
)

func newDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show dashboard statistics",
	}

	cmd.AddCommand(newDashboardStatsCommand())
	cmd.AddCommand(newDashboardActivityCommand())
	cmd.AddCommand(newDashboardPopularCommand())
	cmd.AddCommand(newDashboardBreakdownCommand())

	return cmd
}

func newDashboardStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show headline counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			stats, err := ctx.Client.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Projects: %d\n", stats.TotalProjects)
			fmt.Printf("Notes:    %d\n", stats.TotalNotes)
			fmt.Printf("Views:    %d\n", stats.TotalViews)
			fmt.Printf("Likes:    %d\n", stats.TotalLikes)
			return nil
		},
	}
}

func newDashboardActivityCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the recent activity timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			timeline, err := ctx.Client.RecentActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(timeline.Activities) == 0 {
				fmt.Println("No recent activity")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTYPE\tTITLE")
			for _, a := range timeline.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					timeutil.Relative(a.CreatedAt), a.Type, a.Title)
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of activities to show")

	return cmd
}

func newDashboardPopularCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most viewed projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			projects, err := ctx.Client.PopularProjects(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tVIEWS\tLIKES")
			for _, p := range projects {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", p.ID, p.Title, p.ViewCount, p.LikeCount)
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of projects to show")

	return cmd
}

func newDashboardBreakdownCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show a stats breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			var (
				items []client.BreakdownItem
				err   error
			)
			switch kind {
			case "tech":
				items, err = ctx.Client.TechStackBreakdown(cmd.Context())
			case "categories":
				items, err = ctx.Client.CategoryBreakdown(cmd.Context())
			case "notes":
				items, err = ctx.Client.NoteTypeBreakdown(cmd.Context())
			default:
				return fmt.Errorf("unknown breakdown %q (expected tech, categories, or notes)", kind)
			}
			if err != nil {
				return err
			}

			for _, item := range items {
				fmt.Printf("%s: %d\n", item.Name, item.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "by", "tech", "Breakdown kind (tech, categories, notes)")

	return cmd
}

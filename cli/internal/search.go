package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
)

func newSearchCommand() *cobra.Command {
	var (
		contentTypes []string
		limit        int
		autocomplete bool
		popular      bool
	)

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search across projects, notes, and users",
		Long: `Search across projects, notes, and users.

Examples:
  # Global search
  folio search "token refresh"

  # Restrict to notes
  folio search "interceptor" --type note

  # Autocomplete a prefix
  folio search "inter" --autocomplete

  # Show popular queries
  folio search --popular`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			if popular {
				result, err := ctx.Client.PopularSearches(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, item := range result.PopularSearches {
					fmt.Printf("%s (%d)\n", item.Keyword, item.Count)
				}
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("a search query is required")
			}
			query := args[0]

			if autocomplete {
				result, err := ctx.Client.Autocomplete(cmd.Context(), query)
				if err != nil {
					return err
				}
				for _, s := range result.Suggestions {
					fmt.Println(s)
				}
				return nil
			}

			results, err := ctx.Client.Search(cmd.Context(), query, &client.SearchOptions{
				ContentTypes: contentTypes,
				Limit:        limit,
			})
			if err != nil {
				return err
			}

			if results.TotalCount == 0 {
				fmt.Println("No results")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "KIND\tID\tTITLE")
			for _, p := range results.Projects {
				fmt.Fprintf(w, "project\t%d\t%s\n", p.ID, p.Title)
			}
			for _, n := range results.Notes {
				fmt.Fprintf(w, "note\t%d\t%s\n", n.ID, n.Title)
			}
			for _, u := range results.Users {
				fmt.Fprintf(w, "user\t%d\t%s\n", u.ID, u.Name)
			}
			w.Flush()

			fmt.Printf("\n%d results for %q\n", results.TotalCount, results.Query)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&contentTypes, "type", nil,
		fmt.Sprintf("Content types to search (%s)", strings.Join([]string{"project", "note", "user"}, ", ")))
	cmd.Flags().IntVar(&limit, "limit", 20, "Result limit")
	cmd.Flags().BoolVar(&autocomplete, "autocomplete", false, "Suggest completions for a query prefix")
	cmd.Flags().BoolVar(&popular, "popular", false, "Show the most frequent recent queries")

	return cmd
}

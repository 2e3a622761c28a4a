package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folionote/folio/internal/client"
)

func newMediaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage uploaded media",
	}

	cmd.AddCommand(newMediaUploadCommand())
	cmd.AddCommand(newMediaListCommand())
	cmd.AddCommand(newMediaDeleteCommand())
	cmd.AddCommand(newMediaStatsCommand())

	return cmd
}

func newMediaUploadCommand() *cobra.Command {
	var (
		targetType string
		targetID   int64
		altText    string
		public     bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file and attach it to a project or note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			media, err := ctx.Client.UploadMedia(cmd.Context(), client.MediaUpload{
				TargetType: targetType,
				TargetID:   targetID,
				AltText:    altText,
				IsPublic:   public,
				Filename:   filepath.Base(args[0]),
				Reader:     f,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Uploaded %s as media %d (%s, %d bytes)\n",
				media.OriginalName, media.ID, media.MimeType, media.FileSize)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetType, "target-type", "project", "Attach to a 'project' or a 'note'")
	cmd.Flags().Int64Var(&targetID, "target-id", 0, "Id of the project or note")
	cmd.Flags().StringVar(&altText, "alt", "", "Accessibility alt text")
	cmd.Flags().BoolVar(&public, "public", false, "Make the file publicly accessible")
	cmd.MarkFlagRequired("target-id")

	return cmd
}

func newMediaListCommand() *cobra.Command {
	var (
		targetType string
		targetID   int64
		page       int
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List uploaded media",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			list, err := ctx.Client.ListMedia(cmd.Context(), &client.MediaFilter{
				TargetType: targetType,
				TargetID:   targetID,
				Page:       page,
				PageSize:   pageSize,
			})
			if err != nil {
				return err
			}

			if len(list.Items) == 0 {
				fmt.Println("No media found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE\tTARGET\tPUBLIC")
			for _, m := range list.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s/%d\t%t\n",
					m.ID, m.OriginalName, m.Type, m.FileSize,
					m.TargetType, m.TargetID, m.IsPublic)
			}
			w.Flush()

			return nil
		},
	}

	cmd.Flags().StringVar(&targetType, "target-type", "", "Filter by target type")
	cmd.Flags().Int64Var(&targetID, "target-id", 0, "Filter by target id")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")

	return cmd
}

func newMediaDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete MEDIA_ID [MEDIA_ID...]",
		Aliases: []string{"rm"},
		Short:   "Delete media records",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid media id %q", arg)
				}
				ids = append(ids, id)
			}

			if len(ids) == 1 {
				if err := ctx.Client.DeleteMedia(cmd.Context(), ids[0]); err != nil {
					return err
				}
			} else {
				if err := ctx.Client.BulkDeleteMedia(cmd.Context(), ids); err != nil {
					return err
				}
			}

			fmt.Printf("✓ Deleted %d media record(s)\n", len(ids))
			return nil
		},
	}
}

func newMediaStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			stats, err := ctx.Client.MediaStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Files: %d, total %d bytes\n", stats.TotalFiles, stats.TotalSizeBytes)
			for mediaType, size := range stats.ByType {
				fmt.Printf("  %s: %d bytes\n", mediaType, size)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/reel/internal/app"
	"github.com/five82/reel/internal/linetv"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	Search string
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh the catalog once and print the list",
		Long: `Refresh the catalog once without the TUI and print what the list shows.

The list is seeded from the offline cache first, so a failed refresh still
prints the last saved catalog. The exit status is 1 when the refresh failed.

Examples:
  reel fetch
  reel fetch --search beach
  reel fetch --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fopts := app.FetchOptions{
				Search:    opts.Search,
				SetSearch: cmd.Flags().Changed("search"),
			}
			report, err := app.Fetch(cmd.Context(), opts.appOptions(cmd.ErrOrStderr()), fopts)
			if err != nil {
				return WrapExitError(ExitCommandError, "fetch", err)
			}
			if err := writeReport(cmd.OutOrStdout(), opts.Format, report); err != nil {
				return WrapExitError(ExitCommandError, "write output", err)
			}
			if report.Failed() {
				return NewExitError(ExitFailure, "refresh failed: "+report.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "set the search keyword (empty clears it)")

	return cmd
}

func writeReport(w io.Writer, format string, report app.Report) error {
	if done, err := encode(w, format, report); done {
		return err
	}

	state := "ONLINE"
	if !report.Connected {
		state = "OFFLINE"
	}
	fmt.Fprintf(w, "%s  origin=%s  shown=%d  total=%d", state, report.Origin, len(report.Dramas), report.Total)
	if report.Keyword != "" {
		fmt.Fprintf(w, "  search=%q", report.Keyword)
	}
	fmt.Fprintln(w)
	if report.Failed() {
		fmt.Fprintf(w, "error: %s\n", report.Error)
	}
	if len(report.Dramas) == 0 {
		if report.Keyword != "" {
			fmt.Fprintf(w, "No dramas match %q\n", report.Keyword)
		} else {
			fmt.Fprintln(w, "No dramas yet")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range report.Dramas {
		d := linetv.Drama{TotalViews: row.Views, Rating: row.Rating}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s views\t%s\n", row.ID, row.Name, d.RatingText(), d.ViewsText(), row.Released)
	}
	return tw.Flush()
}

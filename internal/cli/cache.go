package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/reel/internal/app"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the offline cache",
	}
	cmd.AddCommand(newCacheShowCommand(rootOpts))
	return cmd
}

func newCacheShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the cached keyword and catalog summary",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.InspectCache(cmd.Context(), opts.appOptions(cmd.ErrOrStderr()))
			if err != nil {
				return WrapExitError(ExitCommandError, "inspect cache", err)
			}
			if err := writeCacheReport(cmd.OutOrStdout(), opts.Format, report); err != nil {
				return WrapExitError(ExitCommandError, "write output", err)
			}
			return nil
		},
	}
}

func writeCacheReport(w io.Writer, format string, report app.CacheReport) error {
	if done, err := encode(w, format, report); done {
		return err
	}
	fmt.Fprintf(w, "backend:  %s\n", report.Backend)
	if report.HasKeyword {
		fmt.Fprintf(w, "keyword:  %q\n", report.Keyword)
	} else {
		fmt.Fprintln(w, "keyword:  (none)")
	}
	switch {
	case !report.Cached:
		fmt.Fprintf(w, "catalog:  %s not cached\n", report.Path)
	case report.DecodeError != "":
		fmt.Fprintf(w, "catalog:  %s (%d bytes, unreadable: %s)\n", report.Path, report.Bytes, report.DecodeError)
	default:
		fmt.Fprintf(w, "catalog:  %s (%d bytes, %d dramas)\n", report.Path, report.Bytes, report.Dramas)
	}
	return nil
}

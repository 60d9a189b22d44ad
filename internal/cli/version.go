package cli

import (
	"fmt"

	"github.com/arnodel/jsonstreams/internal/iostreams"
	"github.com/spf13/cobra"
)

func newVersionCmd(streams *iostreams.IOStreams, version VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of jsonstreams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(streams.Out, "jsonstreams version %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
			return err
		},
	}
}

// Package cli defines the commands of the jsonstreams tool.
package cli

import (
	"errors"
	"strings"
	"syscall"

	"github.com/arnodel/jsonstreams"
	"github.com/arnodel/jsonstreams/internal/config"
	"github.com/arnodel/jsonstreams/internal/iostreams"
	"github.com/arnodel/jsonstreams/internal/records"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// VersionInfo is the build metadata printed by the version command.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd returns the jsonstreams command using the given streams.
func NewRootCmd(streams *iostreams.IOStreams, version VersionInfo) *cobra.Command {
	v := config.NewViper()
	var configFile string

	root := &cobra.Command{
		Use:   "jsonstreams",
		Short: "Stream records into a single JSON document",
		Long: `jsonstreams reads records (JSON values or CSV rows) and writes them into a
single JSON array or object, one item at a time, without holding the document
in memory.

Settings can also be given with environment variables (JSONSTREAMS_INDENT,
JSONSTREAMS_ENCODER, ...) or in a YAML file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				return config.ReadFile(v, configFile)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML config file")
	pf.StringP("output", "o", "", "write the document to this file instead of stdout")
	pf.Int("indent", 0, "spaces per nesting level, 0 for a single line (default 2 on a terminal)")
	pf.String("in", records.FormatAuto, "input format: "+strings.Join(records.Formats(), ", "))
	pf.String("csv-header", "", "comma-separated field names for CSV input without a header row")
	pf.String("select", "", "jq filter applied to each input record")
	pf.String("encoder", "jsoniter", "value encoder: "+strings.Join(jsonstreams.EncoderNames(), ", "))
	pf.Bool("stats", false, "print export statistics to stderr")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	bindFlags(v, pf, config.KeyOutput, config.KeyIndent, config.KeyInput, config.KeyCSVHeader,
		config.KeySelect, config.KeyEncoder, config.KeyStats, config.KeyLogLevel)

	root.AddCommand(newArrayCmd(streams, v))
	root.AddCommand(newObjectCmd(streams, v))
	root.AddCommand(newVersionCmd(streams, version))
	return root
}

// Execute runs the root command and reports its error on stderr.  A closed
// stdout pipe (e.g. 'jsonstreams array | head') is not an error.
func Execute(cmd *cobra.Command, streams *iostreams.IOStreams) error {
	err := cmd.Execute()
	if err == nil || errors.Is(err, syscall.EPIPE) {
		return nil
	}
	streams.Errorf("%s\n", streams.Failure("Error: "+err.Error()))
	return err
}

// bindFlags binds configuration keys to the flags of the same name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(strings.ReplaceAll(key, "_", "-")))
	}
}

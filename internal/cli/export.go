package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arnodel/jsonstreams"
	"github.com/arnodel/jsonstreams/internal/config"
	"github.com/arnodel/jsonstreams/internal/export"
	"github.com/arnodel/jsonstreams/internal/iostreams"
	"github.com/arnodel/jsonstreams/internal/records"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newArrayCmd(streams *iostreams.IOStreams, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "array [FILE...]",
		Short: "Write input records as the items of a JSON array",
		Long: `Write every input record as an item of a JSON array.

Records are read from the given files in turn, or from stdin when no file is
given ("-" also means stdin).  With --select, each record is replaced by the
outputs of a jq filter.`,
		Example: `  jsonstreams array events.ndjson
  jsonstreams array --select 'select(.level == "error")' app.log
  jsonstreams array --in csvh --indent 2 < users.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, streams, v, jsonstreams.ArrayKind, args)
		},
	}
}

func newObjectCmd(streams *iostreams.IOStreams, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object --key EXPR [FILE...]",
		Short: "Write input records as the members of a JSON object",
		Long: `Write every input record as a member of a JSON object.  The member key is
the first output of the jq expression given with --key, which must be a
string.

With --group, consecutive records with the same key are written into an array
under that key.`,
		Example: `  jsonstreams object --key .id users.ndjson
  jsonstreams object --key .country --group --in csvh < cities.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, streams, v, jsonstreams.ObjectKind, args)
		},
	}
	f := cmd.Flags()
	f.String("key", "", "jq expression computing the key of each record (required)")
	f.Bool("group", false, "group consecutive records with the same key into an array")
	bindFlags(v, f, config.KeyKey, config.KeyGroup)
	return cmd
}

func runExport(cmd *cobra.Command, streams *iostreams.IOStreams, v *viper.Viper, kind jsonstreams.Kind, args []string) (err error) {
	cfg, err := config.Load(v, streams.IsStdoutTTY())
	if err != nil {
		return err
	}
	if kind == jsonstreams.ObjectKind && cfg.Key == "" {
		return errors.New("object requires --key")
	}
	logger := slog.New(slog.NewTextHandler(streams.ErrOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	exp, err := export.New(export.Options{
		Select: cfg.Select,
		Key:    cfg.Key,
		Group:  cfg.Group,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	opts, err := cfg.StreamOptions()
	if err != nil {
		return err
	}

	in, closeInputs, err := openInputs(streams.In, args, cfg.RecordsOptions())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeInputs())
	}()

	ctx := cmd.Context()
	exportArray := func(s *jsonstreams.ArrayStream) error {
		return exp.ExportArray(ctx, s.Array, in)
	}
	exportObject := func(s *jsonstreams.ObjectStream) error {
		return exp.ExportObject(ctx, s.Object, in)
	}

	if cfg.Output != "" {
		logger.Debug("writing document", "kind", kind, "path", cfg.Output)
		if kind == jsonstreams.ArrayKind {
			err = jsonstreams.WriteArrayFile(cfg.Output, exportArray, opts...)
		} else {
			err = jsonstreams.WriteObjectFile(cfg.Output, exportObject, opts...)
		}
	} else {
		logger.Debug("writing document", "kind", kind, "path", "-")
		out := bufio.NewWriter(streams.Out)
		// On a terminal, flush after each item so the user gets feedback early.
		if streams.IsStdoutTTY() {
			opts = append(opts, jsonstreams.WithAutoFlush())
		}
		if kind == jsonstreams.ArrayKind {
			err = jsonstreams.WriteArray(out, exportArray, opts...)
		} else {
			err = jsonstreams.WriteObject(out, exportObject, opts...)
		}
		if err == nil {
			err = out.WriteByte('\n')
		}
		err = errors.Join(err, out.Flush())
	}
	if err != nil {
		return err
	}

	if cfg.Stats {
		return export.PrintStats(streams.ErrOut, exp.Stats(), streams.IsStderrTTY())
	}
	return nil
}

// openInputs returns a reader of the records in the named files, or in stdin
// when there are none.
func openInputs(stdin io.Reader, names []string, opts records.Options) (records.Reader, func() error, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}
	var (
		readers []records.Reader
		files   []*os.File
	)
	closeAll := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Close())
		}
		return errors.Join(errs...)
	}
	for _, name := range names {
		var in io.Reader = stdin
		if name != "-" {
			f, err := os.Open(name)
			if err != nil {
				return nil, nil, errors.Join(fmt.Errorf("opening input: %w", err), closeAll())
			}
			files = append(files, f)
			in = f
		}
		r, err := records.NewReader(in, opts)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("%s: %w", name, err), closeAll())
		}
		readers = append(readers, r)
	}
	return records.Concat(readers...), closeAll, nil
}

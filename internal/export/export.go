// Package export streams input records into a JSON document, one item at a
// time, optionally transforming them with jq expressions.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/arnodel/jsonstreams"
	"github.com/arnodel/jsonstreams/internal/records"
	"github.com/itchyny/gojq"
)

// Options configures an Exporter.
type Options struct {
	// Select is a jq filter applied to each input record.  Each of its
	// outputs is exported.  When empty, records are exported unchanged.
	Select string

	// Key is a jq expression computing the member key of each record in an
	// object export.  Only its first output is used.
	Key string

	// Group writes consecutive records with the same key into an array
	// under that key, instead of one member per record.
	Group bool

	Logger *slog.Logger
}

// An Exporter writes records into a jsonstreams container.
type Exporter struct {
	sel    *gojq.Code
	key    *gojq.Code
	group  bool
	logger *slog.Logger
	stats  Stats
}

// New returns an Exporter for the given options.
func New(opts Options) (*Exporter, error) {
	e := &Exporter{group: opts.Group, logger: opts.Logger}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	var err error
	if opts.Select != "" {
		if e.sel, err = compile("select", opts.Select); err != nil {
			return nil, err
		}
	}
	if opts.Key != "" {
		if e.key, err = compile("key", opts.Key); err != nil {
			return nil, err
		}
	}
	if e.group && e.key == nil {
		return nil, errors.New("grouping requires a key expression")
	}
	return e, nil
}

func compile(name, expr string) (*gojq.Code, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing %s expression: %w", name, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling %s expression: %w", name, err)
	}
	return code, nil
}

// Stats returns the statistics of the exports done so far.
func (e *Exporter) Stats() Stats {
	return e.stats
}

// ExportArray writes every selected record as an item of a.  It does not
// close a.
func (e *Exporter) ExportArray(ctx context.Context, a *jsonstreams.Array, r records.Reader) error {
	defer e.timed()()
	return e.each(ctx, r, func(v any) error {
		if err := a.Write(v); err != nil {
			return err
		}
		e.stats.Items++
		return nil
	})
}

// ExportObject writes every selected record as a member of o, keyed by the
// key expression.  The key must be a string.  It does not close o.
func (e *Exporter) ExportObject(ctx context.Context, o *jsonstreams.Object, r records.Reader) (err error) {
	if e.key == nil {
		return errors.New("object export requires a key expression")
	}
	defer e.timed()()
	if !e.group {
		return e.each(ctx, r, func(v any) error {
			key, err := e.keyOf(ctx, v)
			if err != nil {
				return err
			}
			if err := o.Write(key, v); err != nil {
				return err
			}
			e.stats.Items++
			e.stats.Keys++
			return nil
		})
	}

	var (
		current    *jsonstreams.Array
		currentKey string
	)
	defer func() {
		if current != nil {
			err = errors.Join(err, current.Close())
		}
	}()
	return e.each(ctx, r, func(v any) error {
		key, err := e.keyOf(ctx, v)
		if err != nil {
			return err
		}
		if s, ok := key.(string); !ok || current == nil || s != currentKey {
			if current != nil {
				if err := current.Close(); err != nil {
					current = nil
					return err
				}
				current = nil
			}
			if current, err = o.SubArray(key); err != nil {
				return err
			}
			currentKey = s
			e.stats.Keys++
			e.logger.Debug("group started", "key", s)
		}
		if err := current.Write(v); err != nil {
			return err
		}
		e.stats.Items++
		return nil
	})
}

// each calls f for each output of the select filter on each record of r.
func (e *Exporter) each(ctx context.Context, r records.Reader, f func(any) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		e.stats.Records++
		e.logger.Debug("record read", "record", e.stats.Records)
		if e.sel == nil {
			if err := f(rec); err != nil {
				return err
			}
			continue
		}
		iter := e.sel.RunWithContext(ctx, rec)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				var herr *gojq.HaltError
				if errors.As(err, &herr) && herr.Value() == nil {
					break
				}
				return fmt.Errorf("select expression on record %d: %w", e.stats.Records, err)
			}
			if err := f(v); err != nil {
				return err
			}
		}
	}
}

func (e *Exporter) keyOf(ctx context.Context, v any) (any, error) {
	iter := e.key.RunWithContext(ctx, v)
	key, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("key expression produced no value for record %d", e.stats.Records)
	}
	if err, isErr := key.(error); isErr {
		return nil, fmt.Errorf("key expression on record %d: %w", e.stats.Records, err)
	}
	return key, nil
}

func (e *Exporter) timed() func() {
	start := time.Now()
	return func() {
		e.stats.Elapsed += time.Since(start)
		e.logger.Info("export finished",
			"records", e.stats.Records,
			"items", e.stats.Items,
			"keys", e.stats.Keys,
			"elapsed", e.stats.Elapsed)
	}
}

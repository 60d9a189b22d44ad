package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Stats counts what an Exporter did.
type Stats struct {
	Records int           // input records read
	Items   int           // values written to the document
	Keys    int           // object members opened
	Elapsed time.Duration // time spent exporting
}

// PrintStats writes s as a table.  When isTTY is true it renders aligned
// columns with a header, otherwise tab-separated values for piping.
func PrintStats(w io.Writer, s Stats, isTTY bool) error {
	headers := []string{"STAT", "VALUE"}
	rows := [][]string{
		{"records", strconv.Itoa(s.Records)},
		{"items", strconv.Itoa(s.Items)},
		{"keys", strconv.Itoa(s.Keys)},
		{"elapsed", s.Elapsed.Round(time.Microsecond).String()},
	}
	if !isTTY {
		return printTSV(w, headers, rows)
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
					BetweenRows:    tw.Off,
				},
			},
		})),
	)
	table.Header(toAny(headers)...)
	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func printTSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	result := make([]any, len(ss))
	for i, s := range ss {
		result[i] = s
	}
	return result
}

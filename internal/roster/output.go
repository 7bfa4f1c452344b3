package roster

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	FormatCSV   = "csv"
	FormatTable = "table"
)

// WriteCSV writes a header line followed by one line per member. Nothing is
// written for an empty slice since there is no first record to take the
// header from.
func WriteCSV(w io.Writer, members []Member) error {
	if len(members) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	err := writer.Write(Header)
	if err != nil {
		return err
	}
	for _, m := range members {
		err = writer.Write(m.Fields())
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteTable(w io.Writer, members []Member) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, m := range members {
		fields := m.Fields()
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d members", len(members))})

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// Write renders members in the given format.
func Write(w io.Writer, format string, members []Member) error {
	switch format {
	case "", FormatCSV:
		return WriteCSV(w, members)
	case FormatTable:
		return WriteTable(w, members)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

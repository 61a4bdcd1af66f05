package output

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats data as an aligned table. Data that is not
// tabular is written as text.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if t := toTable(data); t != nil {
		return t.RenderWithOptions(w, f.NoHeaders)
	}
	return (&TextFormatter{}).Format(w, data)
}

func toTable(data any) *Table {
	switch d := data.(type) {
	case *Table:
		return d
	case Table:
		return &d
	case Result:
		return resultTable(d)
	case *Result:
		return resultTable(*d)
	}
	return nil
}

// resultTable lists the items of a list result, one row each.
func resultTable(r Result) *Table {
	items, ok := r.Value.([]string)
	if !ok || r.Error != "" {
		return nil
	}
	t := &Table{Headers: []string{"#", "VALUE"}}
	for i, item := range items {
		t.AddRow(strconv.Itoa(i+1), item)
	}
	return t
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options. Empty cells are
// written as "-".
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		if _, err := io.WriteString(tw, strings.Join(t.Headers, "\t")+"\n"); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell == "" {
				cell = "-"
			}
			cells[i] = cell
		}
		if _, err := io.WriteString(tw, strings.Join(cells, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}

// Records returns the rows as maps keyed by lowercase header, for JSON and
// YAML output.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[strings.ToLower(h)] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

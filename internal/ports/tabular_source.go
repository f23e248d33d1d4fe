package ports

import "context"

// One rectangular block read from a tabular dataset: a header row plus zero
// or more data rows. Cell values are raw strings exactly as the source
// presents them; interpretation belongs to the caller.
type Table struct {
	Header []string
	Rows   [][]string
}

// Col returns the index of the named header column, or -1 if absent.
func (t Table) Col(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Port: a boundary for reading named tables out of uploaded datasets
// (spreadsheet tabs, converted XLSX uploads).
type TabularSource interface {
	// Read returns the named table. It is an error for the dataset or
	// table to be absent or empty.
	Read(ctx context.Context, datasetID, tableName string) (Table, error)
}

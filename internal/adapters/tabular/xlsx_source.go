package tabular

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fleet-allocation-service/internal/ports"
)

// XLSX-backed implementation of the TabularSource port. A dataset id is a
// workbook filename under Dir; a table name is a sheet in that workbook.
// This is the upload-conversion boundary: operators drop exported workbooks
// into the directory and runs read them as tables.
type XLSXSource struct {
	Dir string
}

func NewXLSXSource(dir string) *XLSXSource {
	return &XLSXSource{Dir: dir}
}

func (s *XLSXSource) Read(ctx context.Context, datasetID, tableName string) (ports.Table, error) {
	if datasetID == "" {
		return ports.Table{}, errors.New("xlsx source: dataset id must not be empty")
	}

	path := filepath.Join(s.Dir, datasetID)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ports.Table{}, fmt.Errorf("xlsx source: open workbook %q: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(tableName)
	if err != nil {
		return ports.Table{}, fmt.Errorf("xlsx source: read sheet %q in %q: %w", tableName, datasetID, err)
	}
	if len(rows) == 0 {
		return ports.Table{}, fmt.Errorf("xlsx source: sheet %q in %q is empty", tableName, datasetID)
	}

	return ports.Table{Header: rows[0], Rows: rows[1:]}, nil
}

package tabular

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vroomi/stocksync/pkg/errors"
)

// ReadXLSX decodes the first sheet of an XLSX workbook into a Table. The
// first row is the header. Supplier exports are single-sheet workbooks;
// additional sheets are ignored.
func ReadXLSX(r io.Reader, source string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse("xlsx", source, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", source, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", source, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("xlsx", source, "no header row", nil)
	}

	return &Table{
		Source:  source,
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}

// WriteXLSX encodes a table as a single-sheet XLSX workbook, for shops whose
// import tooling prefers spreadsheets over CSV.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow := func(n int, row []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if err := writeRow(1, t.Columns); err != nil {
		return errors.WrapIO("write", t.Source, err)
	}
	for i, row := range t.Rows {
		if err := writeRow(i+2, row); err != nil {
			return errors.WrapIO("write", t.Source, err)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.WrapIO("write", t.Source, err)
	}
	return nil
}

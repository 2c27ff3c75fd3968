package tabular

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vroomi/stocksync/pkg/errors"
)

// Load reads a tabular file, choosing the codec by extension.
// ".csv" and ".txt" decode as CSV, ".xlsx"/".xlsm" as XLSX. Legacy ".xls"
// workbooks are not supported and must be re-exported as XLSX or CSV.
func Load(path, source string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return ReadCSV(f, source)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, source)
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls workbook %s, re-export as .xlsx or .csv", errors.ErrUnsupportedFormat, path)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFormat, ext)
	}
}

// Save writes a table to a file, choosing the codec by extension. The
// default is CSV, which is what the catalog's bulk-update import consumes.
func Save(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = WriteXLSX(f, t)
	default:
		err = WriteCSV(f, t)
	}
	if err != nil {
		f.Close()
		return err
	}
	return errors.WrapIO("close", path, f.Close())
}

package tabular

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/vroomi/stocksync/pkg/errors"
)

// ReadCSV decodes a CSV document into a Table. The first record is the
// header. Both comma- and semicolon-delimited files are accepted; the
// delimiter is sniffed from the header line, since the catalog export uses
// commas while some supplier exports arrive semicolon-delimited.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", source, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", source, err)
	}
	if len(records) == 0 {
		return nil, errors.NewParseError("csv", source, "no header row", nil)
	}

	return &Table{
		Source:  source,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// sniffDelimiter inspects the first line and prefers the delimiter that
// splits it into more fields.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// WriteCSV encodes a table as comma-delimited CSV with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return errors.WrapIO("write", t.Source, err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return errors.WrapIO("write", t.Source, err)
	}
	writer.Flush()
	return errors.WrapIO("write", t.Source, writer.Error())
}

// Package statement reads uploaded bank statements into raw rows for the
// normalizer. CSV and Excel files are supported; the bank type can shift
// where the header row sits.
package statement

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/finbooks/salesdesk/internal/banktransaction/normalize"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("unsupported_statement_file")

// Skip reports one data row the reader could not parse.
type Skip struct {
	Row    int
	Reason string
}

// Read parses an uploaded statement into raw rows keyed by header name.
// Rows the file format itself rejects come back as skips rather than
// failing the whole statement.
func Read(r io.Reader, filename, bankType string) ([]normalize.Row, []Skip, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xls":
		rows, err := readExcel(r, headerRow(bankType, filename))
		return rows, nil, err
	default:
		return nil, nil, ErrUnsupportedFile
	}
}

// ICICI spreadsheet exports carry account metadata above the data table;
// the column headers sit on row 17.
func headerRow(bankType, filename string) int {
	if strings.EqualFold(bankType, "icici") && strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return 16
	}
	return 0
}

func readCSV(r io.Reader) ([]normalize.Row, []Skip, error) {
	br := bufio.NewReader(r)
	// Statements exported from Excel frequently start with a UTF-8 BOM.
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var rows []normalize.Row
	var skips []Skip
	rowNum := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			// csv.Reader resumes at the next record after a parse error,
			// so one bad row never takes the statement down with it.
			skips = append(skips, Skip{Row: rowNum, Reason: err.Error()})
			continue
		}
		rows = append(rows, zip(header, record))
	}
	return rows, skips, nil
}

func readExcel(r io.Reader, headerIdx int) ([]normalize.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if headerIdx >= len(all) {
		return nil, nil
	}

	header := all[headerIdx]
	var rows []normalize.Row
	for _, record := range all[headerIdx+1:] {
		rows = append(rows, zip(header, record))
	}
	return rows, nil
}

func zip(header, record []string) normalize.Row {
	row := make(normalize.Row, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}
	return row
}

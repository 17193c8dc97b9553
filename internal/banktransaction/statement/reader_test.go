package statement

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	src := "Date,Description,Amount\n2026-04-01,NEFT-ACME,1500\n2026-04-02,UPI-globex,-250\n"
	rows, skips, err := Read(strings.NewReader(src), "statement.csv", "generic")
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, rows, 2)
	assert.Equal(t, "NEFT-ACME", rows[0]["Description"])
	assert.Equal(t, "-250", rows[1]["Amount"])
}

func TestReadCSVStripsBOM(t *testing.T) {
	src := "\xEF\xBB\xBFDate,Amount\n2026-04-01,100\n"
	rows, _, err := Read(strings.NewReader(src), "statement.csv", "generic")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0]["Amount"])
}

func TestReadCSVRaggedRow(t *testing.T) {
	src := "Date,Description,Amount\n2026-04-01,short\n"
	rows, skips, err := Read(strings.NewReader(src), "statement.csv", "generic")
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Amount"])
}

func TestReadCSVSkipsMalformedRow(t *testing.T) {
	// Row two carries a bare quote; the rows around it still come through.
	src := "Date,Description,Amount\n" +
		"2026-04-01,NEFT-ACME,1500\n" +
		"2026-04-02,bad\"quote,100\n" +
		"2026-04-03,UPI-globex,250\n"
	rows, skips, err := Read(strings.NewReader(src), "statement.csv", "generic")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "NEFT-ACME", rows[0]["Description"])
	assert.Equal(t, "UPI-globex", rows[1]["Description"])
	require.Len(t, skips, 1)
	assert.Equal(t, 2, skips[0].Row)
	assert.Contains(t, skips[0].Reason, "quote")
}

func TestReadExcelHeaderOffset(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	// Sixteen preamble rows, headers on row 17.
	require.NoError(t, f.SetCellValue(sheet, "A1", "Account Statement"))
	require.NoError(t, f.SetSheetRow(sheet, "A17", &[]interface{}{"Transaction Date", "Deposit Amt (INR)"}))
	require.NoError(t, f.SetSheetRow(sheet, "A18", &[]interface{}{"15/Apr/2026", "1500"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, _, err := Read(&buf, "stmt.xlsx", "icici")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "15/Apr/2026", rows[0]["Transaction Date"])
	assert.Equal(t, "1500", rows[0]["Deposit Amt (INR)"])
}

func TestReadExcelDefaultHeader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2026-04-01", "42"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, _, err := Read(&buf, "stmt.xlsx", "generic")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0]["Amount"])
}

func TestUnsupportedExtension(t *testing.T) {
	_, _, err := Read(strings.NewReader(""), "statement.pdf", "generic")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

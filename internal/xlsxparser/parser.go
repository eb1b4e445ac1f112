// =============================================================================
// rakeprep - XLSX Parser Module
// =============================================================================
//
// This module is the Reader stage for workbook exports. Planning systems
// often hand out .xlsx files instead of CSV; the rows are read from the first
// sheet and produce exactly the same RawRecord values the CSV reader would.
//
// SHEET LAYOUT:
//   Row 1       : header, must contain every canonical column (any order)
//   Row 2..n    : data rows; fully empty rows are skipped
//
// DATE CELLS:
//   An eta cell holding an Excel date serial with a date number format is
//   read as RFC 3339 (UTC) instead of its display text, so "10/13/25 05:42"
//   reaches the ETA parser as "2025-10-13T05:42:00Z". Text cells are kept
//   as they are.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/railops/rakeprep/internal/types"
	"github.com/railops/rakeprep/pkg/utils"
)

// Source is the input kind reported in errors.
const Source = "XLSX"

// Load reads the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//
// RETURNS:
//   - The raw records in sheet order. Line is the 1-indexed sheet row.
//   - *types.NotFoundError if the path is not an existing regular file.
//   - *types.SchemaError if canonical columns are missing from the header.
func Load(filePath string) ([]types.RawRecord, error) {
	if !utils.IsRegularFile(filePath) {
		return nil, &types.NotFoundError{Path: filePath, Source: Source}
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if err := resolveDateCells(f, sheetName, rows); err != nil {
		return nil, err
	}

	return fromRows(rows)
}

// =============================================================================
// DATE CELLS
// =============================================================================

// resolveDateCells rewrites date-formatted eta cells in rows to RFC 3339.
// rows is modified in place; the header row is left alone.
func resolveDateCells(f *excelize.File, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	col := -1
	for i, name := range rows[0] {
		if name == "eta" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return fmt.Errorf("failed to read workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	for i := 1; i < len(rows); i++ {
		if col >= len(rows[i]) || rows[i][col] == "" {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(col+1, i+1)
		if err != nil {
			return err
		}

		value, ok, err := dateCellValue(f, sheet, cell, date1904)
		if err != nil {
			return err
		}
		if ok {
			rows[i][col] = value
		}
	}
	return nil
}

// dateCellValue returns the RFC 3339 form of cell when it holds a numeric
// serial under a date number format.
func dateCellValue(f *excelize.File, sheet, cell string, date1904 bool) (string, bool, error) {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return "", false, fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	if styleID == 0 {
		return "", false, nil
	}

	style, err := f.GetStyle(styleID)
	if err != nil {
		return "", false, fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	if !isDateStyle(style) {
		return "", false, nil
	}

	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", cell, err)
	}

	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		// Text stored under a date format.
		return "", false, nil
	}

	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return "", false, nil
	}
	return t.UTC().Format(time.RFC3339), true, nil
}

// isDateStyle reports whether style formats numbers as dates or times.
func isDateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}

	switch id := style.NumFmt; {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format code contains a
// year, day or hour token. Quoted literals, escaped characters and bracketed
// sections ([Red], [$-409]) are ignored.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'd', 'h':
				return true
			}
		}
	}
	return false
}

// fromRows converts sheet rows (header first) into raw records.
func fromRows(rows [][]string) ([]types.RawRecord, error) {
	if len(rows) == 0 {
		return nil, &types.SchemaError{Missing: types.MissingColumns(nil), Source: Source}
	}

	header := rows[0]
	if missing := types.MissingColumns(header); len(missing) > 0 {
		return nil, &types.SchemaError{Missing: missing, Source: Source}
	}

	records := make([]types.RawRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(header))
		for col, name := range header {
			if col < len(row) {
				fields[name] = row[col]
			} else {
				fields[name] = ""
			}
		}

		records = append(records, types.RawRecordFromMap(fields, i+1))
	}

	return records, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// rakeprep - CSV Parser Module
// =============================================================================
//
// This module is the Reader stage of the pipeline. It turns a delimited
// shipment export into an ordered slice of RawRecord values, one per data
// row, in file order.
//
// FEATURES:
//   - Header-driven decoding: the first row names the fields
//   - Schema check: every canonical column must appear in the header
//   - Byte-order mark tolerance: a leading BOM is consumed by the decoder
//     and never becomes part of the first header name
//   - Legacy encodings (ISO-8859-1, Windows-1252) via golang.org/x/text
//
// The whole file is read before the result is returned; callers never see
// a partially decoded file.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/railops/rakeprep/internal/config"
	"github.com/railops/rakeprep/internal/types"
	"github.com/railops/rakeprep/pkg/utils"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Load reads a CSV file and returns its data rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The raw records in file order.
//   - *types.NotFoundError if the path is not an existing regular file.
//   - *types.SchemaError if canonical columns are missing from the header.
func Load(filePath string, settings config.CSVSettings) ([]types.RawRecord, error) {
	if !utils.IsRegularFile(filePath) {
		return nil, &types.NotFoundError{Path: filePath}
	}

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.NotFoundError{Path: filePath}
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return LoadReader(file, settings)
}

// LoadReader decodes CSV data from r. It applies the same rules as Load.
func LoadReader(r io.Reader, settings config.CSVSettings) ([]types.RawRecord, error) {
	decoder, err := newDecoder(settings.Encoding)
	if err != nil {
		return nil, err
	}

	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(bufio.NewReader(r), decoder))
	csvReader.Comma = comma

	// Rows may be shorter or longer than the header; absent cells read as
	// empty strings and extra cells are ignored.
	csvReader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, &types.SchemaError{Missing: types.MissingColumns(nil)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	if missing := types.MissingColumns(header); len(missing) > 0 {
		return nil, &types.SchemaError{Missing: missing}
	}

	records := make([]types.RawRecord, 0)
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := csvReader.FieldPos(0)
		records = append(records, types.RawRecordFromMap(rowToMap(header, row), line))
	}

	return records, nil
}

// rowToMap keys a row by header name. When a header name repeats, the
// right-most column wins.
func rowToMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(row) {
			m[name] = row[i]
		} else {
			m[name] = ""
		}
	}
	return m
}

// newDecoder returns a transformer that strips a leading BOM (switching to
// UTF-8 when one is found) and otherwise decodes with the configured
// encoding.
func newDecoder(encoding string) (transform.Transformer, error) {
	var fallback transform.Transformer

	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		fallback = unicode.UTF8.NewDecoder()
	case "ISO-8859-1", "LATIN1":
		fallback = charmap.ISO8859_1.NewDecoder()
	case "WINDOWS-1252", "CP1252":
		fallback = charmap.Windows1252.NewDecoder()
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	return unicode.BOMOverride(fallback), nil
}

// Package ingestion reads a crawl CSV export into ordered row records with
// schema and encoding diagnostics.
package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// LargeFileBytes is the size above which a file is worth a warning.
const LargeFileBytes = 200 << 20

// Record is one data row with the recognized cells extracted. Line is the
// file line number (header is line 1) for diagnostics.
type Record struct {
	Line         int
	Address      string
	StatusCode   int
	Indexability string
	Title        string
	Description  string
	H1           string
}

// Result carries the parsed rows plus file-level diagnostics.
type Result struct {
	Rows     []Record
	Columns  ColumnInfo
	Encoding string
	// SkippedRows counts data rows dropped for a blank Address cell.
	SkippedRows int
	SizeBytes   int64
}

// LargeFile reports whether the export exceeded the size warning threshold.
func (r *Result) LargeFile() bool {
	return r.SizeBytes > LargeFileBytes
}

// ValidateFile checks the path before any parsing happens.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ReadError{Message: fmt.Sprintf("file not found: %s", path)}
		}
		return &ReadError{Message: "cannot stat file", Cause: err}
	}
	if info.IsDir() {
		return &ReadError{Message: fmt.Sprintf("%s is a directory, not a CSV export", path)}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return &ReadError{Message: "file must be a CSV export (.csv)"}
	}
	return nil
}

// ReadFile parses the export at path. UTF-8 is assumed first; exports saved
// by older Windows tools fall back to Windows-1252. Missing required
// columns return a SchemaError.
func ReadFile(path string) (*Result, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Message: "cannot read file", Cause: err}
	}
	if len(data) == 0 {
		return nil, &ReadError{Message: "file is empty"}
	}

	result := &Result{SizeBytes: int64(len(data))}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	result.Encoding = "utf-8"
	if !utf8.Valid(data) {
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, &ReadError{Message: "file is neither UTF-8 nor Windows-1252", Cause: decErr}
		}
		data = decoded
		result.Encoding = "windows-1252"
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, &ReadError{Message: "cannot parse header row", Cause: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	info, missing := classifyColumns(header)
	result.Columns = info
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ReadError{Message: fmt.Sprintf("malformed CSV at line %d", line), Cause: err}
		}

		address := cell(row, ColAddress)
		if address == "" {
			result.SkippedRows++
			continue
		}

		status := 0
		if raw := cell(row, ColStatusCode); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				status = n
			}
		}

		result.Rows = append(result.Rows, Record{
			Line:         line,
			Address:      address,
			StatusCode:   status,
			Indexability: cell(row, ColIndexability),
			Title:        cell(row, ColTitle),
			Description:  cell(row, ColDescription),
			H1:           cell(row, ColH1),
		})
	}

	return result, nil
}

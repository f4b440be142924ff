/*
PURPOSE:
  Writes batch results and prediction logs to CSV files.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output to CSV.

  Implementation-discovered:
  - Log rows from /api/logs are free-form; the header is the union of
    their keys.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli/logs.go
  - Consumes: internal/model.BatchResult, log rows

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Mutex-guarded writes.

USAGE:
  w, err := output.NewCSVWriter("results.csv", output.BatchHeader)
  w.WriteResult(result)
  w.Close()
*/

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/daryltucker/diabetes-check/internal/model"
)

// BatchHeader is the CSV header for batch results.
var BatchHeader = []string{
	"profile", "timestamp", "duration_s", "label", "risk_level",
	"probability_percent", "top_feature", "input", "error",
}

// CSVWriter handles writing rows to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter and writes header.
// It overwrites the file if it exists.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// WriteRow writes a single record. It is thread-safe.
func (cw *CSVWriter) WriteRow(record []string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// WriteResult writes a batch result in BatchHeader order.
func (cw *CSVWriter) WriteResult(r model.BatchResult) error {
	inputBytes, _ := json.Marshal(r.Input)

	return cw.WriteRow([]string{
		r.Profile,
		r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		fmt.Sprintf("%.4f", r.Duration.Seconds()),
		r.Label,
		r.RiskLevel,
		fmt.Sprintf("%.2f", r.ProbabilityPercent),
		r.TopFeature,
		string(inputBytes),
		r.Error,
	})
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// LogHeader returns the sorted union of the keys of rows.
func LogHeader(rows []map[string]interface{}) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(seen))
	for k := range seen {
		header = append(header, k)
	}
	sort.Strings(header)
	return header
}

// LogRecord flattens a log row in header order. Missing keys are empty.
func LogRecord(header []string, row map[string]interface{}) []string {
	record := make([]string, len(header))
	for i, k := range header {
		switch v := row[k].(type) {
		case nil:
		case string:
			record[i] = v
		case float64:
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			b, _ := json.Marshal(v)
			record[i] = string(b)
		}
	}
	return record
}

// WriteLogs writes rows to a new CSV file at path.
func WriteLogs(path string, rows []map[string]interface{}) error {
	header := LogHeader(rows)
	w, err := NewCSVWriter(path, header)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, row := range rows {
		if err := w.WriteRow(LogRecord(header, row)); err != nil {
			return err
		}
	}
	return nil
}

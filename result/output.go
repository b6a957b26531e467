package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Sink receives results in input order. Implementations are only ever
// called from a single goroutine.
type Sink interface {
	Emit(res LinkResult) error
	Close() error
}

// NewSink returns the sink for the named output format: "text", "json" or "csv".
func NewSink(format string, w io.Writer) (Sink, error) {
	switch format {
	case "", "text":
		return NewTextSink(w), nil
	case "json":
		return NewJSONSink(w), nil
	case "csv":
		return NewCSVSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextSink writes one report line per result as soon as it arrives.
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Emit writes the report line for res.
func (s *TextSink) Emit(res LinkResult) error {
	if _, err := fmt.Fprintln(s.w, res.String()); err != nil {
		return fmt.Errorf("write report line: %w", err)
	}
	return nil
}

// Close is a no-op; lines are written unbuffered.
func (s *TextSink) Close() error {
	return nil
}

// jsonRecord is the serialized form of a LinkResult.
type jsonRecord struct {
	Source     string `json:"source"`
	Line       int    `json:"line"`
	Link       string `json:"link"`
	Status     string `json:"status,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Category   string `json:"category,omitempty"`
	Location   string `json:"location,omitempty"`
}

func toJSONRecord(res LinkResult) jsonRecord {
	rec := jsonRecord{
		Source: res.Location.Source,
		Line:   res.Location.Line,
		Link:   res.Link,
	}
	if res.ListOnly {
		return rec
	}
	rec.Status = res.Status.String()
	rec.StatusCode = res.Status.Code
	rec.Kind = res.Status.Kind.String()
	if res.Status.Category != "" && !res.Status.OK() {
		rec.Category = string(res.Status.Category)
	}
	rec.Location = res.Status.Location
	return rec
}

// JSONSink buffers results and writes them as a single JSON array on Close.
// Uses flat array format (not wrapped with metadata) for simpler CI integration.
type JSONSink struct {
	w       io.Writer
	records []jsonRecord
}

// NewJSONSink creates a JSONSink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w, records: []jsonRecord{}}
}

// Emit buffers res.
func (s *JSONSink) Emit(res LinkResult) error {
	s.records = append(s.records, toJSONRecord(res))
	return nil
}

// Close writes the buffered results as a formatted JSON array.
func (s *JSONSink) Close() error {
	enc := json.NewEncoder(s.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// csvHeader is the column order of CSV output.
var csvHeader = []string{"source", "line", "link", "status_code", "status", "kind", "category", "location"}

// CSVSink streams results as CSV rows.
// Always includes a header row, even if there are no results.
type CSVSink struct {
	cw          *csv.Writer
	wroteHeader bool
}

// NewCSVSink creates a CSVSink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{cw: csv.NewWriter(w)}
}

func (s *CSVSink) writeHeader() error {
	if s.wroteHeader {
		return nil
	}
	s.wroteHeader = true
	if err := s.cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return nil
}

// Emit writes one CSV row for res.
func (s *CSVSink) Emit(res LinkResult) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	rec := toJSONRecord(res)
	row := []string{
		rec.Source,
		strconv.Itoa(rec.Line),
		rec.Link,
		statusCodeStr(rec.StatusCode),
		rec.Status,
		rec.Kind,
		rec.Category,
		rec.Location,
	}
	if err := s.cw.Write(row); err != nil {
		return fmt.Errorf("write csv record for %s: %w", res.Link, err)
	}
	return nil
}

// Close writes the header if nothing was emitted and flushes.
func (s *CSVSink) Close() error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	s.cw.Flush()
	if err := s.cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// Collector keeps results in memory, in emission order.
type Collector struct {
	Results []LinkResult
}

// Emit appends res.
func (c *Collector) Emit(res LinkResult) error {
	c.Results = append(c.Results, res)
	return nil
}

// Close is a no-op.
func (c *Collector) Close() error {
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

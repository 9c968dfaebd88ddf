package duphash

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DelimiterWhitespace splits lines on runs of spaces and tabs.
const DelimiterWhitespace = "whitespace"

// maxLineSize bounds one whitespace-separated line.
const maxLineSize = 1024 * 1024

// Format describes how hash records are laid out in a text log.
//
// The default is the sorted aggregate clause file: "hash producer strategy",
// whitespace separated. The raw duplicate log ("t_f t hash lbd len process
// solver") reads with HashColumn 2, ProducerColumn 5, StrategyColumn 6.
// Columns beyond the configured ones are ignored.
type Format struct {
	// Delimiter is DelimiterWhitespace (or "") or a single character such as ",".
	Delimiter      string
	HashColumn     int
	ProducerColumn int
	StrategyColumn int
	// SkipHeader drops the first non-blank, non-comment line.
	SkipHeader bool
	// Comment marks lines to skip when they start with it. Empty disables comments.
	Comment string
}

// DefaultFormat returns the "hash producer strategy" whitespace format.
func DefaultFormat() Format {
	return Format{
		Delimiter:      DelimiterWhitespace,
		HashColumn:     0,
		ProducerColumn: 1,
		StrategyColumn: 2,
	}
}

// Validate checks the column layout and delimiter.
func (f Format) Validate() error {
	if f.HashColumn < 0 || f.ProducerColumn < 0 || f.StrategyColumn < 0 {
		return fmt.Errorf("columns must be non-negative: hash=%d producer=%d strategy=%d",
			f.HashColumn, f.ProducerColumn, f.StrategyColumn)
	}
	if f.HashColumn == f.ProducerColumn || f.HashColumn == f.StrategyColumn || f.ProducerColumn == f.StrategyColumn {
		return fmt.Errorf("columns must be distinct: hash=%d producer=%d strategy=%d",
			f.HashColumn, f.ProducerColumn, f.StrategyColumn)
	}
	if !f.whitespace() {
		r, size := utf8.DecodeRuneInString(f.Delimiter)
		if size != len(f.Delimiter) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return fmt.Errorf("delimiter must be %q or a single character, got %q", DelimiterWhitespace, f.Delimiter)
		}
	}
	return nil
}

func (f Format) whitespace() bool {
	return f.Delimiter == "" || f.Delimiter == DelimiterWhitespace
}

func (f Format) minFields() int {
	return max(f.HashColumn, f.ProducerColumn, f.StrategyColumn) + 1
}

// RecordReader reads Records from a text log. It does not buffer records:
// each Read parses exactly one line.
type RecordReader struct {
	format Format

	scanner *bufio.Scanner // whitespace format
	csv     *csv.Reader    // single-character delimiter

	line       int
	headerDone bool
}

// NewRecordReader creates a reader for r using format f.
func NewRecordReader(r io.Reader, f Format) (*RecordReader, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	rr := &RecordReader{format: f, headerDone: !f.SkipHeader}

	if f.whitespace() {
		rr.scanner = bufio.NewScanner(r)
		rr.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	} else {
		comma, _ := utf8.DecodeRuneInString(f.Delimiter)
		rr.csv = csv.NewReader(r)
		rr.csv.Comma = comma
		rr.csv.FieldsPerRecord = -1
		rr.csv.TrimLeadingSpace = true
		rr.csv.ReuseRecord = true
	}

	return rr, nil
}

// Read returns the next record, or io.EOF when the input is exhausted.
// Lines that cannot be parsed yield a *MalformedInputError.
func (rr *RecordReader) Read() (Record, error) {
	for {
		fields, line, err := rr.next()
		if err != nil {
			return Record{}, err
		}
		if fields == nil {
			continue
		}
		if !rr.headerDone {
			rr.headerDone = true
			continue
		}
		return rr.parse(fields, line)
	}
}

// next returns the fields of the next line, or nil fields for a line that
// should be skipped.
func (rr *RecordReader) next() ([]string, int, error) {
	if rr.scanner != nil {
		if !rr.scanner.Scan() {
			if err := rr.scanner.Err(); err != nil {
				if errors.Is(err, bufio.ErrTooLong) {
					return nil, rr.line + 1, &MalformedInputError{Line: rr.line + 1, Column: -1, Err: err}
				}
				return nil, rr.line + 1, fmt.Errorf("line %d: %w", rr.line+1, err)
			}
			return nil, rr.line, io.EOF
		}
		rr.line++

		text := strings.TrimSpace(rr.scanner.Text())
		if text == "" || rr.isComment(text) {
			return nil, rr.line, nil
		}
		return strings.Fields(text), rr.line, nil
	}

	fields, err := rr.csv.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, pe.Line, &MalformedInputError{Line: pe.Line, Column: -1, Err: pe.Err}
		}
		return nil, rr.line, err
	}
	rr.line, _ = rr.csv.FieldPos(0)

	if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
		return nil, rr.line, nil
	}
	if rr.isComment(strings.TrimSpace(fields[0])) {
		return nil, rr.line, nil
	}
	return fields, rr.line, nil
}

func (rr *RecordReader) isComment(text string) bool {
	return rr.format.Comment != "" && strings.HasPrefix(text, rr.format.Comment)
}

func (rr *RecordReader) parse(fields []string, line int) (Record, error) {
	f := rr.format
	if len(fields) < f.minFields() {
		return Record{}, &MalformedInputError{
			Line:   line,
			Column: -1,
			Value:  strings.Join(fields, " "),
			Err:    fmt.Errorf("expected at least %d fields, got %d", f.minFields(), len(fields)),
		}
	}

	hash := strings.TrimSpace(fields[f.HashColumn])
	if hash == "" {
		return Record{}, &MalformedInputError{
			Line:   line,
			Column: f.HashColumn,
			Value:  fields[f.HashColumn],
			Err:    errors.New("empty hash"),
		}
	}

	producer, err := parseID(fields, f.ProducerColumn, line)
	if err != nil {
		return Record{}, err
	}
	strategy, err := parseID(fields, f.StrategyColumn, line)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Hash:     hash,
		Identity: Identity{Producer: producer, Strategy: strategy},
		Line:     line,
	}, nil
}

func parseID(fields []string, col, line int) (int, error) {
	raw := strings.TrimSpace(fields[col])
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &MalformedInputError{Line: line, Column: col, Value: raw, Err: err}
	}
	if v < 0 {
		return 0, &MalformedInputError{Line: line, Column: col, Value: raw, Err: errors.New("negative id")}
	}
	return v, nil
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader, f Format) ([]Record, error) {
	rr, err := NewRecordReader(r, f)
	if err != nil {
		return nil, err
	}

	var records []Record
	for {
		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// AggregateReader streams records from r straight into a new Aggregator,
// so memory does not grow with the size of the input.
//
// Loader errors are returned unchanged. ctx is checked between records.
func AggregateReader(ctx context.Context, r io.Reader, f Format, opts ...Option) (*Result, error) {
	rr, err := NewRecordReader(r, f)
	if err != nil {
		return nil, err
	}
	agg, err := NewAggregator(opts...)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := agg.Add(rec); err != nil {
			return nil, err
		}
	}

	return agg.Finalize(), nil
}

package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	ErrFileNotFound = errors.New("annotation file not readable")
	ErrSchema       = errors.New("annotation schema error")
)

type void struct{}

var Void = void{}

type Set map[string]void

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = Void
	}
	return set
}

// MissingValues holds the cell contents read as absent, in addition to the empty string.
var MissingValues = NewSet("NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "<NA>",
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "1.#IND", "1.#QNAN", "None")

type TableParameters struct {
	DataFile        string
	RequiredColumns []string
	// Delimiter defaults to a tab.
	Delimiter rune
}

// Table is an in-memory annotation table. Tables are never modified once read;
// Filter, MapColumn and FillMissing return new tables.
type Table struct {
	Columns     []string
	columnIndex map[string]int
	records     [][]string
	lines       []int
}

// LoadTable reads a delimited annotation file whose first row is a header.
func LoadTable(p TableParameters) (*Table, error) {
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, p.DataFile, err)
		}
		return nil, fmt.Errorf("error opening file %s: %w", p.DataFile, err)
	}
	defer inputFile.Close()

	table, err := ReadTable(inputFile, p)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", p.DataFile, err)
	}
	return table, nil
}

// ReadTable reads a table from r. DataFile in p is ignored.
// Every non-blank line is one record; fields never span lines.
func ReadTable(r io.Reader, p TableParameters) (*Table, error) {
	delimiter := '\t'
	if p.Delimiter != 0 {
		delimiter = p.Delimiter
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var t *Table
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			continue
		}
		record, err := splitRecord(text, delimiter)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, line, err)
		}

		//First line is expected to be a header
		if t == nil {
			t, err = newTable(record, p.RequiredColumns)
			if err != nil {
				return nil, err
			}
			continue
		}
		if len(record) > len(t.Columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrSchema, line, len(record), len(t.Columns))
		}
		row := make([]string, len(t.Columns))
		for i, value := range record {
			if _, missing := MissingValues[value]; !missing {
				row[i] = value
			}
		}
		t.records = append(t.records, row)
		t.lines = append(t.lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading data at line %d: %w", line+1, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: missing header", ErrSchema)
	}
	return t, nil
}

const maxLineSize = 4 * 1024 * 1024

func newTable(header []string, required []string) (*Table, error) {
	t := &Table{
		Columns:     header,
		columnIndex: make(map[string]int, len(header)),
	}
	for i, col := range header {
		col = strings.TrimSpace(col)
		header[i] = col
		if _, ok := t.columnIndex[col]; !ok {
			t.columnIndex[col] = i
		}
	}
	for _, col := range required {
		if _, ok := t.columnIndex[col]; !ok {
			return nil, fmt.Errorf("%w: required column %s not found in data header", ErrSchema, col)
		}
	}
	return t, nil
}

type fieldState int

const (
	fieldStart fieldState = iota
	inField
	inQuotedField
	quoteInQuotedField
)

// splitRecord splits a line on delimiter. A field opening with a quote is read up to
// its closing quote, "" standing for a literal quote, and any text after the closing
// quote is appended as is. Quotes inside unquoted fields are literal.
func splitRecord(line string, delimiter rune) ([]string, error) {
	var fields []string
	var field strings.Builder
	state := fieldStart
	for _, c := range line {
		switch state {
		case fieldStart, inField:
			switch {
			case c == delimiter:
				fields = append(fields, field.String())
				field.Reset()
				state = fieldStart
			case c == '"' && state == fieldStart:
				state = inQuotedField
			default:
				field.WriteRune(c)
				state = inField
			}
		case inQuotedField:
			if c == '"' {
				state = quoteInQuotedField
			} else {
				field.WriteRune(c)
			}
		case quoteInQuotedField:
			switch c {
			case '"':
				field.WriteRune(c)
				state = inQuotedField
			case delimiter:
				fields = append(fields, field.String())
				field.Reset()
				state = fieldStart
			default:
				field.WriteRune(c)
				state = inField
			}
		}
	}
	if state == inQuotedField {
		return nil, errors.New("unterminated quoted field")
	}
	return append(fields, field.String()), nil
}

func (t *Table) Len() int {
	return len(t.records)
}

// Line returns the source line of a row, 0 for tables not read from a file.
func (t *Table) Line(row int) int {
	if row < 0 || row >= len(t.lines) {
		return 0
	}
	return t.lines[row]
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnIndex[name]
	return ok
}

func (t *Table) column(name string) (int, error) {
	index, ok := t.columnIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: column %s not found", ErrSchema, name)
	}
	return index, nil
}

// Column returns a copy of the values of a column, in row order.
func (t *Table) Column(name string) ([]string, error) {
	index, err := t.column(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.records))
	for i, record := range t.records {
		values[i] = record[index]
	}
	return values, nil
}

func (t *Table) derive(records [][]string, lines []int) *Table {
	return &Table{
		Columns:     t.Columns,
		columnIndex: t.columnIndex,
		records:     records,
		lines:       lines,
	}
}

// Filter returns the rows whose value in column satisfies keep, in their original order.
func (t *Table) Filter(column string, keep func(value string) bool) (*Table, error) {
	index, err := t.column(column)
	if err != nil {
		return nil, err
	}
	var records [][]string
	var lines []int
	for i, record := range t.records {
		if keep(record[index]) {
			records = append(records, record)
			lines = append(lines, t.lines[i])
		}
	}
	return t.derive(records, lines), nil
}

// MapColumn returns a table where every value of column is replaced by f(value).
func (t *Table) MapColumn(column string, f func(value string) string) (*Table, error) {
	index, err := t.column(column)
	if err != nil {
		return nil, err
	}
	records := make([][]string, len(t.records))
	for i, record := range t.records {
		row := make([]string, len(record))
		copy(row, record)
		row[index] = f(record[index])
		records[i] = row
	}
	return t.derive(records, t.lines), nil
}

// FillMissing returns a table where every missing cell holds value.
func (t *Table) FillMissing(value string) *Table {
	records := make([][]string, len(t.records))
	for i, record := range t.records {
		row := make([]string, len(record))
		for j, v := range record {
			if v == "" {
				v = value
			}
			row[j] = v
		}
		records[i] = row
	}
	return t.derive(records, t.lines)
}

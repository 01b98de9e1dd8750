package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Row is one data row keyed by header name. Index is the 1-based sheet row.
type Row struct {
	Index  int
	Values map[string]string
}

func (r Row) Get(key string) string { return r.Values[key] }

// Sheet is a header-addressed worksheet inside an .xlsx workbook. Every call
// opens the workbook from disk, so edits made in another program are picked up.
// Writes are read-modify-save of the whole file and are serialized within the
// process only.
type Sheet struct {
	Path   string
	Name   string
	Header []string

	mu sync.Mutex
}

func NewSheet(path, name string, header []string) *Sheet {
	return &Sheet{Path: path, Name: name, Header: header}
}

func (s *Sheet) Rows(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.Name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.Name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	out := make([]Row, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		out = append(out, Row{Index: i + 1, Values: toMap(header, rows[i])})
	}
	return out, nil
}

// Append writes values after the last used row. A missing workbook is created
// with the configured header.
func (s *Sheet) Append(ctx context.Context, values map[string]any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.openOrCreate()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(s.Name)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", s.Name, err)
	}

	if len(rows) == 0 {
		if err := s.writeRow(f, 1, toAny(s.Header)); err != nil {
			return 0, err
		}
		rows = [][]string{s.Header}
	}
	header := rows[0]

	next := len(rows) + 1
	if err := s.writeRow(f, next, s.ordered(header, values)); err != nil {
		return 0, err
	}

	if err := s.save(f, created); err != nil {
		return 0, err
	}
	return next, nil
}

// Update overwrites the cells of an existing data row.
func (s *Sheet) Update(ctx context.Context, index int, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.Name)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", s.Name, err)
	}
	if index < 2 || index > len(rows) {
		return fmt.Errorf("row %d out of range (sheet %q has %d rows)", index, s.Name, len(rows))
	}

	if err := s.writeRow(f, index, s.ordered(rows[0], values)); err != nil {
		return err
	}
	return s.save(f, false)
}

func (s *Sheet) openOrCreate() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.Path)
	if err == nil {
		if idx, _ := f.GetSheetIndex(s.Name); idx == -1 {
			f.Close()
			return nil, false, fmt.Errorf("sheet %q not found in %s", s.Name, s.Path)
		}
		return f, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("open %s: %w", s.Path, err)
	}

	log.Printf("[XLSX] workbook %q not found, creating with sheet %q", s.Path, s.Name)
	f = excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

func (s *Sheet) save(f *excelize.File, created bool) error {
	var err error
	if created {
		err = f.SaveAs(s.Path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}

func (s *Sheet) writeRow(f *excelize.File, index int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, index)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", index, err)
	}
	return nil
}

// ordered lays values out in the column order of the workbook's own header.
func (s *Sheet) ordered(header []string, values map[string]any) []any {
	out := make([]any, len(header))
	seen := 0
	for i, h := range header {
		if v, ok := values[strings.TrimSpace(h)]; ok {
			out[i] = v
			seen++
		} else {
			out[i] = ""
		}
	}
	if seen < len(values) {
		log.Printf("[XLSX][WARN] sheet=%q: %d value(s) have no matching column", s.Name, len(values)-seen)
	}
	return out
}

// ---------- helpers ----------

func toMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, key := range header {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return m
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseInt reads an integer cell. Cells formatted as "12.0" are accepted.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

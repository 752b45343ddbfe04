package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/thinkforge/internal/dimension"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/xuri/excelize/v2"
)

// Column names recognized in the header row.
const (
	ColID         = "id"
	ColConcept    = "concept_key"
	ColLevel      = "level"
	ColDifficulty = "difficulty"
	ColTitle      = "title"
	ColPublished  = "published"
	ColSortOrder  = "sort_order"
)

var requiredColumns = []string{ColID, ColConcept, ColLevel, ColTitle}

// ImportConfig selects what to read from a spreadsheet or CSV file.
type ImportConfig struct {
	Path string
	// Sheet is the workbook sheet; empty means the first sheet.
	Sheet string
}

// ImportResult summarizes an import. Bad rows are reported, not fatal.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Import reads content rows from an .xlsx or .csv file and upserts them.
func Import(ctx context.Context, repo store.ContentRepo, cfg ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv":
		rows, err = readCSV(cfg.Path)
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(cfg.Path, cfg.Sheet)
	default:
		return nil, fmt.Errorf("unsupported catalog file %q", cfg.Path)
	}
	if err != nil {
		return nil, err
	}

	items, result, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	if err := Seed(ctx, repo, items); err != nil {
		return nil, err
	}
	result.Imported = len(items)
	return result, nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRows converts a header row plus data rows into content records.
// Rows that fail to parse are skipped and listed in the result.
func ParseRows(rows [][]string) ([]store.ContentRecord, *ImportResult, error) {
	if len(rows) == 0 {
		return nil, nil, errors.New("catalog file is empty")
	}
	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", c)
		}
	}

	result := &ImportResult{}
	var items []store.ContentRecord
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		result.TotalProcessed++
		it, err := parseRow(row, cols, line)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		items = append(items, it)
	}
	return items, result, nil
}

func parseRow(row []string, cols map[string]int, line int) (store.ContentRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	it := store.ContentRecord{
		ID:         get(ColID),
		ConceptKey: get(ColConcept),
		Title:      get(ColTitle),
		Difficulty: 1,
		Published:  true,
		SortOrder:  line,
	}
	if it.ID == "" {
		return it, errors.New("id is empty")
	}
	c, ok := dimension.LookupConcept(it.ConceptKey)
	if !ok {
		return it, fmt.Errorf("unknown concept %q", it.ConceptKey)
	}
	it.Dimension = c.Dimension

	level, err := strconv.Atoi(get(ColLevel))
	if err != nil || !dimension.Level(level).Valid() {
		return it, fmt.Errorf("level %q must be 1-5", get(ColLevel))
	}
	it.Level = level

	if v := get(ColDifficulty); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 {
			return it, fmt.Errorf("difficulty %q must be a positive integer", v)
		}
		it.Difficulty = d
	}
	if v := get(ColPublished); v != "" {
		p, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return it, fmt.Errorf("published %q is not a boolean", v)
		}
		it.Published = p
	}
	if v := get(ColSortOrder); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return it, fmt.Errorf("sort_order %q is not an integer", v)
		}
		it.SortOrder = n
	}
	return it, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

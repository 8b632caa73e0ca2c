package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var ErrParseFailure = errors.New("workbook parse failure")

// Format identifies the encoding of a downloaded workbook.
type Format string

const (
	FormatAuto Format = "auto"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// maxXLSRows bounds legacy workbook reads.
const maxXLSRows = 100000

// Cell is one header/value pair of a row, all cell content treated as text.
type Cell struct {
	Header string
	Value  string
}

// Row keeps the sheet's column order.
type Row []Cell

// Value returns the value under the exact header, or "".
func (r Row) Value(header string) string {
	for _, c := range r {
		if c.Header == header {
			return c.Value
		}
	}
	return ""
}

// IsBlank reports whether every cell is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

type Sheet struct {
	Name string
	Rows []Row
}

type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the sheet with the exact name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// FindSheet returns the first sheet whose name contains fragment, case-insensitively.
func (w *Workbook) FindSheet(fragment string) (*Sheet, bool) {
	fragment = strings.ToLower(fragment)
	for i := range w.Sheets {
		if strings.Contains(strings.ToLower(w.Sheets[i].Name), fragment) {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Parse decodes a downloaded workbook. The first non-empty row of every sheet is the header row.
func Parse(data []byte, format Format) (*Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrParseFailure)
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(data)
	}

	var (
		wb  *Workbook
		err error
	)
	switch format {
	case FormatXLSX:
		wb, err = parseXLSX(data)
	case FormatXLS:
		wb, err = parseXLS(data)
	case FormatCSV:
		wb, err = parseCSV(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrParseFailure, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: no worksheet found", ErrParseFailure)
	}
	return wb, nil
}

// DetectFormat sniffs zip (xlsx) and OLE2 (xls) magic bytes; anything else is read as csv.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatXLSX
	case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return FormatXLS
	default:
		return FormatCSV
	}
}

func parseXLSX(data []byte) (*Workbook, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	wb := &Workbook{}
	for _, name := range file.GetSheetList() {
		grid, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: gridToRows(grid)})
	}
	return wb, nil
}

func parseXLS(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	wb := &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		var grid [][]string
		for r := 0; r <= int(ws.MaxRow) && r < maxXLSRows; r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			grid = append(grid, cells)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: ws.Name, Rows: gridToRows(grid)})
	}
	return wb, nil
}

func parseCSV(data []byte) (*Workbook, error) {
	// Excel's "CSV UTF-8" export prepends a byte order mark to the first header.
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var grid [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, rec)
	}
	return &Workbook{Sheets: []Sheet{{Name: "Sheet1", Rows: gridToRows(grid)}}}, nil
}

// gridToRows turns a raw cell grid into header-keyed rows. Cells under blank headers are dropped
// and short rows are padded with empty values.
func gridToRows(grid [][]string) []Row {
	headerIdx := -1
	for i, line := range grid {
		if !blankLine(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	header := grid[headerIdx]
	rows := make([]Row, 0, len(grid)-headerIdx-1)
	for _, line := range grid[headerIdx+1:] {
		row := make(Row, 0, len(header))
		for c, h := range header {
			if strings.TrimSpace(h) == "" {
				continue
			}
			value := ""
			if c < len(line) {
				value = line[c]
			}
			row = append(row, Cell{Header: h, Value: value})
		}
		rows = append(rows, row)
	}
	return rows
}

func blankLine(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

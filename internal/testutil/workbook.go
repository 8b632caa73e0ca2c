package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fiberops-assistant-be/pkg/sheets"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetData is one worksheet fixture: a header row followed by data rows.
type SheetData struct {
	Name   string
	Header []string
	Rows   [][]string
}

// BuildXLSX renders the fixture sheets, in order, into xlsx bytes.
func BuildXLSX(t testing.TB, data ...SheetData) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	for i, sd := range data {
		if i == 0 {
			require.NoError(t, f.SetSheetName(defaultSheet, sd.Name))
		} else {
			_, err := f.NewSheet(sd.Name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(sd.Name, "A1", toAny(sd.Header)))
		for r, row := range sd.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sd.Name, cell, toAny(row)))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// BuildWorkbook builds the in-memory model directly, skipping encoding.
func BuildWorkbook(data ...SheetData) *sheets.Workbook {
	wb := &sheets.Workbook{}
	for _, sd := range data {
		sheet := sheets.Sheet{Name: sd.Name}
		for _, line := range sd.Rows {
			row := make(sheets.Row, 0, len(sd.Header))
			for c, h := range sd.Header {
				v := ""
				if c < len(line) {
					v = line[c]
				}
				row = append(row, sheets.Cell{Header: h, Value: v})
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb
}

func toAny(values []string) *[]interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &out
}

// SheetServer serves workbook payloads by path and lets tests fail or delay a path.
type SheetServer struct {
	*httptest.Server

	mu      sync.Mutex
	payload map[string][]byte
	status  map[string]int
	delay   map[string]time.Duration
	hits    map[string]int
}

func NewSheetServer(t testing.TB) *SheetServer {
	t.Helper()
	s := &SheetServer{
		payload: make(map[string][]byte),
		status:  make(map[string]int),
		delay:   make(map[string]time.Duration),
		hits:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *SheetServer) Set(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload[path] = data
	delete(s.status, path)
}

func (s *SheetServer) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
}

func (s *SheetServer) Delay(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[path] = d
}

func (s *SheetServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *SheetServer) URL(path string) string {
	return s.Server.URL + path
}

func (s *SheetServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	data, ok := s.payload[r.URL.Path]
	status, failing := s.status[r.URL.Path]
	delay := s.delay[r.URL.Path]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	_, _ = w.Write(data)
}

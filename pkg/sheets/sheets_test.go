package sheets_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fiberops-assistant-be/internal/testutil"
	"fiberops-assistant-be/pkg/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRow(t *testing.T) {
	row := sheets.Row{
		{Header: " Map # ", Value: "FB-1"},
		{Header: "Ticket", Value: "T1"},
		{Header: "MAP #", Value: "FB-2"},
		{Header: "Due Date", Value: ""},
	}

	n := sheets.NormalizeRow(row)

	assert.Equal(t, []string{"map #", "ticket", "due date"}, n.Keys())
	assert.Equal(t, "FB-2", n.Get("map #"), "later column wins on collision")
	assert.True(t, n.Has("due date"))
	assert.False(t, n.Has("Due Date"))
}

func TestNormalizeRow_Idempotent(t *testing.T) {
	rows := []sheets.Row{
		{},
		{{Header: "Project", Value: "A"}, {Header: "project ", Value: "B"}},
		{{Header: "NTP Number", Value: " FB-100 "}, {Header: "Footage UG", Value: "1,200"}},
	}

	for _, row := range rows {
		once := sheets.NormalizeRow(row)
		twice := sheets.NormalizeRow(once.Row())
		assert.Equal(t, once, twice)
	}
}

func TestResolve(t *testing.T) {
	n := sheets.NormalizeRow(sheets.Row{
		{Header: "Map #", Value: "  "},
		{Header: "Project", Value: "XYZ-42"},
		{Header: "Job", Value: "J-1"},
	})

	assert.Equal(t, "XYZ-42", sheets.Resolve(n, []string{"map #", "project", "job"}))
	assert.Equal(t, "", sheets.Resolve(n, []string{"missing"}))

	got := sheets.ResolveAll(n, []sheets.FieldAliases{
		{Field: "id", Aliases: []string{"map #", "job"}},
		{Field: "none", Aliases: []string{"nope"}},
	})
	assert.Equal(t, map[string]string{"id": "J-1", "none": ""}, got)
}

func TestFindHeader(t *testing.T) {
	row := sheets.Row{{Header: "Huntsville NTP Number"}, {Header: "Footage Remaining"}}

	h, ok := sheets.FindHeader(row, "ntp number")
	require.True(t, ok)
	assert.Equal(t, "Huntsville NTP Number", h)

	_, ok = sheets.FindHeader(row, "supervisor")
	assert.False(t, ok)
}

func TestParseLenientNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"1200", 1200},
		{"1,200", 1200},
		{"$3,450.50", 3450.5},
		{" 800 ft", 800},
		{"-25", -25},
		{"n/a", 0},
		{"1.2.3", 0},
		{"TBD", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, sheets.ParseLenientNumber(tt.raw))
		})
	}
}

func TestParse_XLSX(t *testing.T) {
	data := testutil.BuildXLSX(t,
		testutil.SheetData{
			Name:   "Active",
			Header: []string{"NTP Number", "", "Footage UG"},
			Rows:   [][]string{{"FB-1", "ignored", "100"}, {"FB-2"}},
		},
		testutil.SheetData{Name: "Locate Master", Header: []string{"Map #"}, Rows: [][]string{{"FB-1"}}},
	)

	wb, err := sheets.Parse(data, sheets.FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"Active", "Locate Master"}, wb.SheetNames())

	active, ok := wb.Sheet("Active")
	require.True(t, ok)
	require.Len(t, active.Rows, 2)
	assert.Equal(t, sheets.Row{{Header: "NTP Number", Value: "FB-1"}, {Header: "Footage UG", Value: "100"}}, active.Rows[0])
	assert.Equal(t, "", active.Rows[1].Value("Footage UG"), "short rows are padded")

	master, ok := wb.FindSheet("MASTER")
	require.True(t, ok)
	assert.Equal(t, "Locate Master", master.Name)
}

func TestParse_CSV(t *testing.T) {
	data := []byte("\n\nMap #,Ticket\nXYZ-42,T1\n")

	wb, err := sheets.Parse(data, sheets.FormatAuto)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	require.Len(t, wb.Sheets[0].Rows, 1)
	assert.Equal(t, "T1", wb.Sheets[0].Rows[0].Value("Ticket"))
}

func TestParse_CSVWithByteOrderMark(t *testing.T) {
	data := []byte("\ufeffMap #,Ticket,Due Date\nFB-100,T99,2024-05-01\n")

	wb, err := sheets.Parse(data, sheets.FormatAuto)
	require.NoError(t, err)
	require.Len(t, wb.Sheets[0].Rows, 1)

	row := wb.Sheets[0].Rows[0]
	assert.Equal(t, "Map #", row[0].Header)
	assert.Equal(t, "FB-100", sheets.Resolve(sheets.NormalizeRow(row), []string{"map #"}))
}

func TestNormalizeHeader_StripsByteOrderMark(t *testing.T) {
	assert.Equal(t, "map #", sheets.NormalizeHeader("\ufeff Map # "))
}

func TestParse_Failures(t *testing.T) {
	_, err := sheets.Parse(nil, sheets.FormatAuto)
	assert.True(t, errors.Is(err, sheets.ErrParseFailure))

	_, err = sheets.Parse([]byte("PK\x03\x04garbage"), sheets.FormatAuto)
	assert.True(t, errors.Is(err, sheets.ErrParseFailure))
}

func TestFetcher_FetchBoth_IsolatesFailures(t *testing.T) {
	srv := testutil.NewSheetServer(t)
	srv.Set("/projects.xlsx", []byte("payload"))
	srv.Fail("/locates.xlsx", http.StatusInternalServerError)

	f := sheets.NewFetcher(0)
	res := f.FetchBoth(context.Background(), srv.URL("/projects.xlsx"), srv.URL("/locates.xlsx"))

	require.True(t, res.Project.OK())
	assert.Equal(t, []byte("payload"), res.Project.Data)

	require.False(t, res.Locate.OK())
	assert.True(t, errors.Is(res.Locate.Err, sheets.ErrSourceUnavailable))
	assert.Nil(t, res.Locate.Data)

	assert.Equal(t, 1, srv.Hits("/projects.xlsx"))
	assert.Equal(t, 1, srv.Hits("/locates.xlsx"), "no retries within one attempt")
}

func TestFetcher_FetchBoth_DownloadsConcurrently(t *testing.T) {
	const delay = 300 * time.Millisecond
	srv := testutil.NewSheetServer(t)
	srv.Set("/projects.xlsx", []byte("projects"))
	srv.Set("/locates.xlsx", []byte("locates"))
	srv.Delay("/projects.xlsx", delay)
	srv.Delay("/locates.xlsx", delay)

	start := time.Now()
	res := sheets.NewFetcher(5*time.Second).FetchBoth(context.Background(), srv.URL("/projects.xlsx"), srv.URL("/locates.xlsx"))
	elapsed := time.Since(start)

	require.True(t, res.Project.OK())
	require.True(t, res.Locate.OK())
	assert.Less(t, elapsed, 2*delay-50*time.Millisecond)
}

func TestFetcher_FetchBoth_SlowLocateDoesNotHoldProjects(t *testing.T) {
	srv := testutil.NewSheetServer(t)
	srv.Set("/projects.xlsx", []byte("projects"))
	srv.Set("/locates.xlsx", []byte("locates"))
	srv.Delay("/locates.xlsx", 3*time.Second)

	f := sheets.NewFetcher(10 * time.Second)
	f.LocateGrace = 100 * time.Millisecond

	start := time.Now()
	res := f.FetchBoth(context.Background(), srv.URL("/projects.xlsx"), srv.URL("/locates.xlsx"))
	elapsed := time.Since(start)

	require.True(t, res.Project.OK())
	assert.Equal(t, []byte("projects"), res.Project.Data)
	require.False(t, res.Locate.OK())
	assert.True(t, errors.Is(res.Locate.Err, sheets.ErrSourceUnavailable))
	assert.Less(t, elapsed, time.Second)
}

func TestFetcher_Fetch_RejectsOversizedWorkbook(t *testing.T) {
	defer sheets.SetMaxWorkbookBytes(8)()

	srv := testutil.NewSheetServer(t)
	srv.Set("/big.xlsx", []byte("0123456789"))
	srv.Set("/small.xlsx", []byte("01234567"))

	f := sheets.NewFetcher(5 * time.Second)
	res := f.Fetch(context.Background(), srv.URL("/big.xlsx"))
	assert.True(t, errors.Is(res.Err, sheets.ErrSourceUnavailable))
	assert.Contains(t, res.Err.Error(), "larger than 8 bytes")
	assert.Nil(t, res.Data)

	res = f.Fetch(context.Background(), srv.URL("/small.xlsx"))
	require.NoError(t, res.Err)
	assert.Equal(t, []byte("01234567"), res.Data)
}

func TestFetcher_Fetch_Unconfigured(t *testing.T) {
	res := sheets.NewFetcher(0).Fetch(context.Background(), "")
	assert.True(t, errors.Is(res.Err, sheets.ErrSourceUnavailable))
}

package locate_test

import (
	"testing"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/testutil"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIndexer() *locate.Indexer {
	return locate.NewIndexer(locate.DefaultRules(), logger.NewNopLogger())
}

func TestBuild_TicketSlotHeuristic(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "Master List",
		Header: []string{"Map #", "Ticket #2", "Ticket", "Due Date"},
		Rows:   [][]string{{"XYZ-42", "T2", "T1", "2024-01-01"}},
	})

	index := newIndexer().Build(wb)

	require.Len(t, index["XYZ-42"], 1)
	got := index["XYZ-42"][0]
	assert.Equal(t, "T1", got.Ticket1)
	assert.Equal(t, "T2", got.Ticket2)
	assert.Empty(t, got.Ticket3)
	assert.Empty(t, got.Ticket4)
	assert.Equal(t, "2024-01-01", got.DueDate)
	assert.Equal(t, []string{"T1", "T2"}, got.Numbers())
}

func TestBuild_OrdinalHints(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "MASTER",
		Header: []string{"Project", "4th Ticket", "3rd Ticket", "2nd Ticket", "1st Ticket", "Ticket Type", "Called By"},
		Rows:   [][]string{{"FB-7", "D", "C", "B", "A", "Normal", "Jones"}},
	})

	got := newIndexer().Build(wb)["FB-7"]

	require.Len(t, got, 1)
	assert.Equal(t, locate.Ticket{
		Ticket1: "A", Ticket2: "B", Ticket3: "C", Ticket4: "D", Company: "Jones",
	}, got[0])
}

func TestBuild_FallbackToFirstUnclaimedColumn(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "master",
		Header: []string{"Job #", "Ticket 2", "Locate Number", "Locate Status", "Phone"},
		Rows:   [][]string{{"J-100", "second", "first", "Clear", "555-0100"}},
	})

	got := newIndexer().Build(wb)["J-100"]

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Ticket1)
	assert.Equal(t, "second", got[0].Ticket2)
	assert.Equal(t, "Clear", got[0].Status)
	assert.Equal(t, "555-0100", got[0].Phone)
}

func TestBuild_IdentifierPriorityAndNoise(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "Locates MASTER",
		Header: []string{"Map #", "Project", "Ticket"},
		Rows: [][]string{
			{"", "PRJ-1", "T1"},
			{"MAP-9", "PRJ-2", "T2"},
			{"AB", "", "T3"},
			{" ", "", "T4"},
			{"MAP-9", "", "T5"},
		},
	})

	index := newIndexer().Build(wb)

	assert.Len(t, index, 2)
	assert.Equal(t, "T1", index["PRJ-1"][0].Ticket1)
	require.Len(t, index["MAP-9"], 2)
	assert.Equal(t, "T2", index["MAP-9"][0].Ticket1, "entries keep row order")
	assert.Equal(t, "T5", index["MAP-9"][1].Ticket1)
	assert.NotContains(t, index, "AB")
}

func TestBuild_ShortIdentifiersCountCharacters(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "master",
		Header: []string{"Map #", "Ticket"},
		Rows:   [][]string{{"ÅB", "T1"}, {"ÅBC", "T2"}},
	})

	index := newIndexer().Build(wb)

	assert.NotContains(t, index, "ÅB")
	require.Contains(t, index, "ÅBC")
	assert.Equal(t, "T2", index["ÅBC"][0].Ticket1)
}

func TestBuild_CSVWithByteOrderMark(t *testing.T) {
	wb, err := sheets.Parse([]byte("\ufeffMap #,Ticket,Due Date\nFB-100,T99,2024-05-01\n"), sheets.FormatCSV)
	require.NoError(t, err)

	got := newIndexer().Build(wb)["FB-100"]

	require.Len(t, got, 1)
	assert.Equal(t, "T99", got[0].Ticket1)
	assert.Equal(t, "2024-05-01", got[0].DueDate)
}

func TestBuild_RowWithoutTicketColumnsStillIndexed(t *testing.T) {
	wb := testutil.BuildWorkbook(testutil.SheetData{
		Name:   "master",
		Header: []string{"Map #", "Notes"},
		Rows:   [][]string{{"FB-9", "waiting on permit"}},
	})

	got := newIndexer().Build(wb)["FB-9"]

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Numbers())
	assert.Equal(t, "waiting on permit", got[0].Notes)
}

func TestBuild_FallsBackToFirstSheetWithWarning(t *testing.T) {
	log, logs := testutil.NewObservedLogger(zap.WarnLevel)
	wb := testutil.BuildWorkbook(
		testutil.SheetData{Name: "Tickets", Header: []string{"Map #", "Ticket"}, Rows: [][]string{{"FB-1", "T1"}}},
		testutil.SheetData{Name: "Other", Header: []string{"Map #", "Ticket"}, Rows: [][]string{{"FB-2", "T2"}}},
	)

	index := locate.NewIndexer(locate.DefaultRules(), log).Build(wb)

	assert.Contains(t, index, "FB-1")
	assert.NotContains(t, index, "FB-2")
	assert.Equal(t, 1, logs.FilterMessage("No master sheet found, using first sheet").Len())
}

func TestBuild_EmptyWorkbook(t *testing.T) {
	assert.Empty(t, newIndexer().Build(nil))
	assert.Empty(t, newIndexer().Build(&sheets.Workbook{}))
}

package locate

import (
	"strings"
	"unicode/utf8"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/pkg/sheets"
)

const logModule = "LocateIndexer"

// Indexer turns the locate workbook into an identifier -> tickets index.
type Indexer struct {
	rules  Rules
	logger logger.ILogger
}

func NewIndexer(rules Rules, log logger.ILogger) *Indexer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Indexer{rules: rules, logger: log}
}

// Build never fails: unreadable rows are skipped and missing cells become "".
func (ix *Indexer) Build(wb *sheets.Workbook) Index {
	index := make(Index)
	if wb == nil || len(wb.Sheets) == 0 {
		ix.logger.Warn(logModule, "Locate workbook has no sheets", nil)
		return index
	}

	sheet, ok := wb.FindSheet(ix.rules.SheetFragment)
	if !ok {
		sheet = &wb.Sheets[0]
		ix.logger.Warn(logModule, "No master sheet found, using first sheet", map[string]interface{}{
			"sheet":  sheet.Name,
			"sheets": wb.SheetNames(),
		})
	}

	skipped := 0
	for _, row := range sheet.Rows {
		id, ticket, ok := ix.parseRow(sheets.NormalizeRow(row))
		if !ok {
			skipped++
			continue
		}
		index[id] = append(index[id], ticket)
	}

	ix.logger.Info(logModule, "Locate index built", map[string]interface{}{
		"sheet":    sheet.Name,
		"projects": len(index),
		"tickets":  index.Count(),
		"skipped":  skipped,
	})
	return index
}

func (ix *Indexer) parseRow(row sheets.NormalizedRow) (string, Ticket, bool) {
	id := strings.TrimSpace(sheets.Resolve(row, ix.rules.IdentifierKeys))
	if utf8.RuneCountInString(id) < ix.rules.MinIDLength {
		return "", Ticket{}, false
	}

	var candidates []string
	for _, key := range row.Keys() {
		if ix.rules.isTicketColumn(key) {
			candidates = append(candidates, key)
		}
	}
	slots := ix.rules.assignSlots(candidates)

	meta := sheets.ResolveAll(row, ix.rules.Metadata)
	return id, Ticket{
		Ticket1:       slotValue(row, slots[0]),
		Ticket2:       slotValue(row, slots[1]),
		Ticket3:       slotValue(row, slots[2]),
		Ticket4:       slotValue(row, slots[3]),
		Phone:         meta[FieldPhone],
		Area:          meta[FieldArea],
		Company:       meta[FieldCompany],
		DateCalled:    meta[FieldDateCalled],
		DueDate:       meta[FieldDueDate],
		ExpireDate:    meta[FieldExpireDate],
		EscalatedDate: meta[FieldEscalatedDate],
		Status:        meta[FieldStatus],
		CompletedDate: meta[FieldCompletedDate],
		Notes:         meta[FieldNotes],
	}, true
}

func slotValue(row sheets.NormalizedRow, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(row.Get(key))
}

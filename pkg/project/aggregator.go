package project

import (
	"errors"
	"fmt"
	"strings"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/sheets"
)

var ErrNoValidRows = errors.New("no valid project rows")

const logModule = "ProjectAggregator"

// rejectReason labels why a roster row did not become a Record.
type rejectReason string

const (
	rejectNone     rejectReason = ""
	rejectBlank    rejectReason = "blank"
	rejectNoID     rejectReason = "missing_identifier"
	rejectExcluded rejectReason = "excluded"
)

type Aggregator struct {
	rules  Rules
	logger logger.ILogger
}

func NewAggregator(rules Rules, log logger.ILogger) *Aggregator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Aggregator{rules: rules, logger: log}
}

// Build reads the allow-listed sheets in order and joins locate tickets by trimmed identifier.
// The same identifier in two sheets yields two records.
func (a *Aggregator) Build(wb *sheets.Workbook, index locate.Index) ([]Record, error) {
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook", ErrNoValidRows)
	}

	var records []Record
	rejected := map[rejectReason]int{}
	for _, spec := range a.rules.Sheets {
		sheet, ok := wb.Sheet(spec.Name)
		if !ok {
			a.logger.Debug(logModule, "Allowed sheet not present in workbook", map[string]interface{}{"sheet": spec.Name})
			continue
		}
		for _, row := range sheet.Rows {
			rec, reason := a.buildRecord(spec, row, index)
			if reason != rejectNone {
				rejected[reason]++
				continue
			}
			records = append(records, rec)
		}
	}

	a.logger.Info(logModule, "Project collection built", map[string]interface{}{
		"records":  len(records),
		"rejected": rejected,
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: checked sheets %v of %v", ErrNoValidRows, a.sheetNames(), wb.SheetNames())
	}
	return records, nil
}

func (a *Aggregator) buildRecord(spec SheetSpec, row sheets.Row, index locate.Index) (Record, rejectReason) {
	if row.IsBlank() {
		return Record{}, rejectBlank
	}

	idHeader, found := sheets.FindHeader(row, a.rules.IdentifierMarker)
	if !found {
		idHeader = a.rules.IdentifierDefaultKey
	}
	id := strings.TrimSpace(row.Value(idHeader))
	if id == "" {
		return Record{}, rejectNoID
	}
	if sheets.ContainsAny(strings.ToLower(id), a.rules.ExcludedPhrases) {
		return Record{}, rejectExcluded
	}

	remainingHeader, found := sheets.FindHeader(row, a.rules.RemainingMarker)
	if !found {
		remainingHeader = a.rules.RemainingDefaultKey
	}

	fields := sheets.ResolveAll(sheets.NormalizeRow(row), a.rules.Fields)
	total := nonNegative(parseNumber(fields[FieldFootageTotal]))
	remaining := RemainingOrTotal(row.Value(remainingHeader), total)

	supervisor := fields[FieldSupervisor]
	if supervisor == "" {
		supervisor = DefaultSupervisor
	}

	return Record{
		ID:                id,
		Market:            a.market(idHeader, spec),
		Supervisor:        supervisor,
		Sheet:             spec.Name,
		FootageTotal:      total,
		FootageRemaining:  remaining,
		CompletionPercent: CompletionPercent(total, remaining),
		Status:            fields[FieldStatus],
		StartDate:         fields[FieldStartDate],
		CompletionDate:    fields[FieldCompletionDate],
		Cost:              fields[FieldCost],
		Area:              fields[FieldArea],
		Households:        fields[FieldHouseholds],
		LocateTickets:     copyTickets(index.Lookup(id)),
	}, rejectNone
}

// market names the bucket after the identifier header ("Huntsville NTP Number" -> "Huntsville"),
// then the sheet's market, then DefaultMarket.
func (a *Aggregator) market(idHeader string, spec SheetSpec) string {
	lower := strings.ToLower(idHeader)
	marker := strings.ToLower(a.rules.IdentifierMarker)
	if i := strings.Index(lower, marker); i >= 0 && marker != "" && len(lower) == len(idHeader) {
		name := idHeader[:i] + idHeader[i+len(marker):]
		name = strings.Trim(name, " -_:#()\ufeff")
		if name != "" {
			return name
		}
	}
	if spec.Market != "" {
		return spec.Market
	}
	return DefaultMarket
}

func (a *Aggregator) sheetNames() []string {
	names := make([]string, len(a.rules.Sheets))
	for i, s := range a.rules.Sheets {
		names[i] = s.Name
	}
	return names
}

func copyTickets(in []locate.Ticket) []locate.Ticket {
	out := make([]locate.Ticket, len(in))
	copy(out, in)
	return out
}

func parseNumber(raw string) float64 {
	return sheets.ParseLenientNumber(raw)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

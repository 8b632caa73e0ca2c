package locate

import "fiberops-assistant-be/pkg/sheets"

const (
	FieldPhone         = "phone"
	FieldArea          = "area"
	FieldCompany       = "company"
	FieldDateCalled    = "date_called"
	FieldDueDate       = "due_date"
	FieldExpireDate    = "expire_date"
	FieldEscalatedDate = "escalated_date"
	FieldStatus        = "status"
	FieldCompletedDate = "completed_date"
	FieldNotes         = "notes"
)

// Rules holds the header heuristics for the locate workbook. All strings are normalized
// (lower-case, trimmed) header keys or fragments of them.
type Rules struct {
	SheetFragment  string
	IdentifierKeys []string
	MinIDLength    int

	TicketFragments    []string
	ForbiddenFragments []string
	// SlotHints[i] lists substrings that pin a column to ticket slot i+1.
	SlotHints [4][]string
	// GenericTicketKeys are exact keys accepted for slot 1.
	GenericTicketKeys []string

	Metadata []sheets.FieldAliases
}

func DefaultRules() Rules {
	return Rules{
		SheetFragment:  "master",
		IdentifierKeys: []string{"map #", "map#", "map", "project", "ntp number", "ntp #", "job #", "job"},
		MinIDLength:    3,

		TicketFragments: []string{"ticket", "locate", "tic"},
		ForbiddenFragments: []string{
			"date", "status", "due", "exp", "phone", "note", "comment",
			"called", "complete", "escalate", "by", "type",
		},
		SlotHints: [4][]string{
			{"1st", "ticket 1", "ticket #1", "ticket# 1", "ticket # 1"},
			{"2nd", "ticket 2", "ticket #2", "ticket# 2", "ticket # 2"},
			{"3rd", "ticket 3", "ticket #3", "ticket# 3", "ticket # 3"},
			{"4th", "ticket 4", "ticket #4", "ticket# 4", "ticket # 4"},
		},
		GenericTicketKeys: []string{
			"ticket", "ticket #", "ticket#", "ticket number", "ticket no",
			"tic", "tic #", "tic#", "locate", "locate #", "locate ticket", "locate ticket #",
		},

		Metadata: []sheets.FieldAliases{
			{Field: FieldPhone, Aliases: []string{"phone", "phone #", "phone number", "contact phone", "contact #"}},
			{Field: FieldArea, Aliases: []string{"area", "locate area", "county", "city"}},
			{Field: FieldCompany, Aliases: []string{"company", "contractor", "locating company", "utility", "called by"}},
			{Field: FieldDateCalled, Aliases: []string{"date called", "date called in", "called in", "call date", "called"}},
			{Field: FieldDueDate, Aliases: []string{"due date", "due", "locate due date", "due by"}},
			{Field: FieldExpireDate, Aliases: []string{"expire date", "expiration date", "exp date", "expires", "expiration"}},
			{Field: FieldEscalatedDate, Aliases: []string{"escalated date", "escalation date", "date escalated", "escalated"}},
			{Field: FieldStatus, Aliases: []string{"status", "locate status", "ticket status"}},
			{Field: FieldCompletedDate, Aliases: []string{"completed date", "complete date", "date completed", "completed"}},
			{Field: FieldNotes, Aliases: []string{"notes", "note", "comments", "comment"}},
		},
	}
}

// isTicketColumn reports whether a normalized key can hold a ticket number.
func (r Rules) isTicketColumn(key string) bool {
	return sheets.ContainsAny(key, r.TicketFragments) && !sheets.ContainsAny(key, r.ForbiddenFragments)
}

// assignSlots maps candidate ticket columns (in source order) to the four slots.
func (r Rules) assignSlots(candidates []string) [4]string {
	var slots [4]string
	claimed := make(map[string]bool, len(candidates))

	for i := 3; i >= 1; i-- {
		for _, key := range candidates {
			if !claimed[key] && sheets.ContainsAny(key, r.SlotHints[i]) {
				slots[i] = key
				claimed[key] = true
				break
			}
		}
	}

	for _, key := range candidates {
		if !claimed[key] && sheets.ContainsAny(key, r.SlotHints[0]) {
			slots[0] = key
			claimed[key] = true
			break
		}
	}
	if slots[0] == "" {
		for _, generic := range r.GenericTicketKeys {
			if containsKey(candidates, generic) && !claimed[generic] {
				slots[0] = generic
				claimed[generic] = true
				break
			}
		}
	}
	if slots[0] == "" {
		for _, key := range candidates {
			if !claimed[key] {
				slots[0] = key
				break
			}
		}
	}
	return slots
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

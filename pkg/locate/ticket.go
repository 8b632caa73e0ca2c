package locate

// Ticket is one locate-ticket row. Values are copied verbatim from the sheet; absent columns are
// empty strings.
type Ticket struct {
	Ticket1       string `json:"ticket1"`
	Ticket2       string `json:"ticket2"`
	Ticket3       string `json:"ticket3"`
	Ticket4       string `json:"ticket4"`
	Phone         string `json:"phone"`
	Area          string `json:"area"`
	Company       string `json:"company"`
	DateCalled    string `json:"date_called"`
	DueDate       string `json:"due_date"`
	ExpireDate    string `json:"expire_date"`
	EscalatedDate string `json:"escalated_date"`
	Status        string `json:"status"`
	CompletedDate string `json:"completed_date"`
	Notes         string `json:"notes"`
}

// Numbers returns the non-empty ticket numbers in slot order.
func (t Ticket) Numbers() []string {
	var out []string
	for _, n := range []string{t.Ticket1, t.Ticket2, t.Ticket3, t.Ticket4} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Index maps a trimmed project identifier to its tickets in source row order. Keys are compared
// case-sensitively.
type Index map[string][]Ticket

// Lookup returns the tickets for id, nil if none.
func (ix Index) Lookup(id string) []Ticket {
	return ix[id]
}

// Count returns the total number of tickets across all identifiers.
func (ix Index) Count() int {
	n := 0
	for _, ts := range ix {
		n += len(ts)
	}
	return n
}

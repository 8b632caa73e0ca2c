package sheets

import "strings"

// NormalizeHeader is the canonical key space for heterogeneously named columns.
func NormalizeHeader(header string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(strings.ToLower(header)), "\ufeff"))
}

// NormalizedRow maps normalized headers to the original cell values. Keys keep the order in
// which they first appeared in the source row.
type NormalizedRow struct {
	keys   []string
	values map[string]string
}

// NormalizeRow lower-cases and trims every header. When two headers collide the later column
// wins, the key keeps its first position.
func NormalizeRow(row Row) NormalizedRow {
	n := NormalizedRow{
		keys:   make([]string, 0, len(row)),
		values: make(map[string]string, len(row)),
	}
	for _, c := range row {
		key := NormalizeHeader(c.Header)
		if _, seen := n.values[key]; !seen {
			n.keys = append(n.keys, key)
		}
		n.values[key] = c.Value
	}
	return n
}

func (n NormalizedRow) Get(key string) string {
	return n.values[key]
}

func (n NormalizedRow) Has(key string) bool {
	_, ok := n.values[key]
	return ok
}

// Keys returns the normalized keys in source column order.
func (n NormalizedRow) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func (n NormalizedRow) Len() int {
	return len(n.keys)
}

// Row converts back to a Row keyed by normalized headers.
func (n NormalizedRow) Row() Row {
	row := make(Row, 0, len(n.keys))
	for _, k := range n.keys {
		row = append(row, Cell{Header: k, Value: n.values[k]})
	}
	return row
}

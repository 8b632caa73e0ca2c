package sheets

import "strings"

// FieldAliases binds a canonical field to the normalized headers that may carry it, highest
// priority first.
type FieldAliases struct {
	Field   string
	Aliases []string
}

// Resolve returns the trimmed value of the first alias present with a non-empty value.
func Resolve(row NormalizedRow, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(row.Get(alias)); v != "" {
			return v
		}
	}
	return ""
}

// ResolveAll resolves every field of the table into a field->value map. Fields without a
// match map to "".
func ResolveAll(row NormalizedRow, table []FieldAliases) map[string]string {
	out := make(map[string]string, len(table))
	for _, fa := range table {
		out[fa.Field] = Resolve(row, fa.Aliases)
	}
	return out
}

// FindHeader returns the first original header of row containing fragment, case-insensitively.
func FindHeader(row Row, fragment string) (string, bool) {
	fragment = strings.ToLower(fragment)
	for _, c := range row {
		if strings.Contains(strings.ToLower(c.Header), fragment) {
			return c.Header, true
		}
	}
	return "", false
}

// ContainsAny reports whether s contains at least one of the fragments.
func ContainsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

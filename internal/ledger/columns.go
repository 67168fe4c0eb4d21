package ledger

import (
	"strings"

	"fjacquet/sheet-ledger/internal/parsererror"
)

// Required logical column names, in the order they are reported.
const (
	ColumnDate        = "Date"
	ColumnType        = "Type"
	ColumnCategory    = "Category"
	ColumnDescription = "Description"
	ColumnAmount      = "Amount"
)

// RequiredColumns lists the logical fields every sheet must provide.
var RequiredColumns = []string{ColumnDate, ColumnType, ColumnCategory, ColumnDescription, ColumnAmount}

// ColumnMap holds the input column index resolved for each required field.
type ColumnMap struct {
	Date        int
	Type        int
	Category    int
	Description int
	Amount      int
}

// NormalizeHeader trims and lower-cases a header for matching.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// IsPlaceholderHeader reports whether a header is an export artifact rather
// than a real column: an empty header or a pandas-style "Unnamed: 3".
func IsPlaceholderHeader(header string) bool {
	h := strings.TrimSpace(header)
	return h == "" || strings.HasPrefix(h, "Unnamed")
}

// ResolveColumns maps each required field to the first input column whose
// normalized header matches it. Placeholder columns never match. When fields
// are missing the error lists them together with every header as given.
func ResolveColumns(headers []string) (ColumnMap, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if IsPlaceholderHeader(h) {
			continue
		}
		key := NormalizeHeader(h)
		if _, taken := index[key]; !taken {
			index[key] = i
		}
	}

	var missing []string
	lookup := func(field string) int {
		i, ok := index[NormalizeHeader(field)]
		if !ok {
			missing = append(missing, field)
			return -1
		}
		return i
	}

	cols := ColumnMap{
		Date:        lookup(ColumnDate),
		Type:        lookup(ColumnType),
		Category:    lookup(ColumnCategory),
		Description: lookup(ColumnDescription),
		Amount:      lookup(ColumnAmount),
	}

	if len(missing) > 0 {
		found := make([]string, len(headers))
		copy(found, headers)
		return ColumnMap{}, &parsererror.MissingColumnsError{Missing: missing, Found: found}
	}
	return cols, nil
}

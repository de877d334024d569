package storage

import (
	"fmt"
	"strings"
)

// SortField is a person column that listings may be ordered by.
type SortField struct {
	Column  string
	Heading string
}

var sortFields = []SortField{
	{Column: "person_id", Heading: "ID"},
	{Column: "first_name", Heading: "First Name"},
	{Column: "last_name", Heading: "Last Name"},
	{Column: "birthday", Heading: "Birthday"},
	{Column: "email", Heading: "Email"},
}

// SortFields returns the allow-list of sortable person columns in display order.
func SortFields() []SortField {
	out := make([]SortField, len(sortFields))
	copy(out, sortFields)
	return out
}

// ValidateSortField checks orderBy against the allow-list. The returned
// column is safe to interpolate into an ORDER BY clause.
func ValidateSortField(orderBy string) (string, error) {
	for _, f := range sortFields {
		if f.Column == orderBy {
			return f.Column, nil
		}
	}
	cols := make([]string, len(sortFields))
	for i, f := range sortFields {
		cols[i] = f.Column
	}
	return "", NewError("validate order_by", KindInvalidArgument,
		fmt.Errorf("order_by %q must be one of: %s", orderBy, strings.Join(cols, ", ")))
}

// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package panel provides the shared machinery of the dashboard panels.

Every domain panel follows the same lifecycle: fetch the full collection from
the upstream API, filter it in the gateway, aggregate, and optionally export
the filtered rows as CSV. This package holds the pieces common to all of
them; the per-domain packages own their record shapes and aggregates.
*/
package panel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// MatchesQuery reports whether any of the fields contains query as a
// case-insensitive substring. An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesExact reports whether value satisfies a categorical filter. An
// empty filter, or the catch-all values the UI sends, matches everything;
// otherwise the comparison is exact and case-sensitive.
func MatchesExact(filter, value string) bool {
	switch filter {
	case "", "all", "Todos", "Todas":
		return true
	}
	return filter == value
}

// FormatAmount renders a numeric amount for CSV cells: no exponent, no
// trailing zeros, integers stay integers.
func FormatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// CSVDocument renders a header and rows as a CSV document.
func CSVDocument(header []string, rows [][]string) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buffer.Bytes(), nil
}

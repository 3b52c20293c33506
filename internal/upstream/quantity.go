// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package upstream

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity is a numeric amount that the API serializes inconsistently:
// decimal fields arrive as JSON strings ("15.50"), integer fields as plain
// numbers. It decodes both and always encodes as a number. Empty or null
// values decode to zero.
type Quantity float64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" || text == `""` {
		*q = 0
		return nil
	}

	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(unquoted), 64)
		if err != nil {
			return err
		}
		*q = Quantity(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*q = Quantity(value)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(q))
}

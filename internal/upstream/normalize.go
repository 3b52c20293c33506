// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package upstream

import "encoding/json"

// normalizeList flattens the two list shapes the API produces. Endpoints
// with pagination enabled wrap records in {"results": [...]}; the rest
// return a bare array. Anything else, including a malformed body, yields an
// empty collection rather than an error: a panel renders an empty table, it
// never crashes on a shape change.
func normalizeList(raw []byte) []json.RawMessage {
	var bare []json.RawMessage
	if err := json.Unmarshal(raw, &bare); err == nil {
		if bare == nil {
			return []json.RawMessage{}
		}
		return bare
	}

	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results
	}

	return []json.RawMessage{}
}

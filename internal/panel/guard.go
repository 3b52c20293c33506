// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package panel

import "sync/atomic"

// FetchGuard orders concurrent fetch-and-commit cycles: each cycle takes a
// ticket at start, and only the holder of the latest ticket may commit its
// result. A slow, older fetch that completes after a newer one started is
// discarded instead of overwriting fresher data.
type FetchGuard struct {
	sequence atomic.Uint64
}

// Begin starts a cycle and returns its ticket.
func (guard *FetchGuard) Begin() uint64 {
	return guard.sequence.Add(1)
}

// Current reports whether ticket still identifies the latest cycle.
func (guard *FetchGuard) Current(ticket uint64) bool {
	return guard.sequence.Load() == ticket
}

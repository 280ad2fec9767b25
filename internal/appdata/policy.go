// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package appdata

import (
	"fmt"
	"strings"
)

// UpdatePolicy decides when a partial update reaches the cache.
type UpdatePolicy int

const (
	// WriteThrough merges the patch into the cache after the store accepts it.
	WriteThrough UpdatePolicy = iota

	// Optimistic merges the patch before the store call. A failed store call
	// leaves the optimistic value cached until the next load.
	Optimistic

	// OptimisticRevert merges before the store call and restores the previous
	// value on failure, unless the cache changed in the meantime.
	OptimisticRevert
)

var policyNames = map[UpdatePolicy]string{
	WriteThrough:     "write-through",
	Optimistic:       "optimistic",
	OptimisticRevert: "optimistic-revert",
}

func (p UpdatePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("UpdatePolicy(%d)", int(p))
}

// ParseUpdatePolicy parses "write-through", "optimistic" or
// "optimistic-revert".
func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return WriteThrough, fmt.Errorf("unknown update policy %q", s)
}

// State is the lifecycle state of one cached collection.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"fmt"

	"github.com/digitalislam/dicms/internal/docstore"
)

// idField is the wire name of entity identifiers. It is never stored as a
// document field.
const idField = "id"

// EncodeFields converts an entity or patch to document fields through its
// JSON representation. The identifier field is dropped.
func EncodeFields(v any) (docstore.Fields, error) {
	fields, err := toFields(v)
	if err != nil {
		return nil, err
	}
	delete(fields, idField)
	return fields, nil
}

func toFields(v any) (docstore.Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	fields := docstore.Fields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return fields, nil
}

// DecodeFields converts document fields to an entity. Unknown fields are
// ignored.
func DecodeFields[E any](fields docstore.Fields) (E, error) {
	var e E
	data, err := json.Marshal(fields)
	if err != nil {
		return e, fmt.Errorf("decoding %T: %w", e, err)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decoding %T: %w", e, err)
	}
	return e, nil
}

// Merge applies a partial update to an entity: fields present in patch
// replace those of e, absent fields are kept. The identifier of e is kept
// and cannot be changed by patch.
func Merge[E any](e E, patch any) (E, error) {
	base, err := toFields(e)
	if err != nil {
		return e, err
	}
	delta, err := EncodeFields(patch)
	if err != nil {
		return e, err
	}
	for k, v := range delta {
		base[k] = v
	}

	merged, err := DecodeFields[E](base)
	if err != nil {
		return e, err
	}
	return merged, nil
}

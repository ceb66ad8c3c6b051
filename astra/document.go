// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"encoding/json"
)

// Document is a single document (or table row) as returned by the Data
// API. The library treats its contents as opaque structured values.
type Document map[string]any

// Filter selects documents for read and write operations. Its contents
// are passed through to the server untouched.
type Filter map[string]any

// Sort specifies result ordering for find-style operations.
type Sort map[string]any

// Projection limits the fields returned for matched documents.
type Projection map[string]any

// Update describes the mutations applied by update operations.
type Update map[string]any

// DecodeDocument unmarshals doc into val through its JSON representation,
// following the usual encoding/json field rules.
func DecodeDocument(doc Document, val any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, val)
}

// cloneValue deep-copies maps and slices so a cursor never aliases
// caller-held structures.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case Document:
		return Document(cloneValue(map[string]any(v)).(map[string]any))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return cloneValue(doc).(map[string]any)
}

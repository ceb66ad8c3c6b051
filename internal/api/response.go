// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package api

import (
	"encoding/json"
)

// Response is the decoded body of a 2xx Data API reply. All three
// sections are optional; a reply may carry any combination of them.
type Response struct {
	Status map[string]any `json:"status,omitempty"`
	Data   *DataBlock     `json:"data,omitempty"`
	Errors []RawError     `json:"errors,omitempty"`
}

// DataBlock holds the documents returned by a read command together with
// the continuation token for the next page, if any.
type DataBlock struct {
	Document      map[string]any   `json:"document,omitempty"`
	Documents     []map[string]any `json:"documents,omitempty"`
	NextPageState *string          `json:"nextPageState,omitempty"`
}

// RawError is one error object from a response's errors array. The
// message and errorCode keys are lifted into typed fields; every other
// key is retained in Attributes.
type RawError struct {
	Message    string
	ErrorCode  string
	Attributes map[string]any
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *RawError) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if msg, ok := fields["message"].(string); ok {
		e.Message = msg
	}
	if code, ok := fields["errorCode"].(string); ok {
		e.ErrorCode = code
	}
	delete(fields, "message")
	delete(fields, "errorCode")
	if len(fields) > 0 {
		e.Attributes = fields
	}
	return nil
}

// MarshalJSON implements json.Marshaler. It restores the flat wire shape
// produced by the server.
func (e RawError) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(e.Attributes)+2)
	for k, v := range e.Attributes {
		fields[k] = v
	}
	if e.Message != "" {
		fields["message"] = e.Message
	}
	if e.ErrorCode != "" {
		fields["errorCode"] = e.ErrorCode
	}
	return json.Marshal(fields)
}

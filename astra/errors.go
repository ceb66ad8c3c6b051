// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/datastax/astra-db-go/internal/api"
)

// ErrNoDocuments is returned by FindOne-style operations when the filter
// matched nothing.
var ErrNoDocuments = errors.New("astra: no documents in result")

// ErrNoMoreDocuments is the sentinel returned by FindCursor.Next once the
// cursor is exhausted or closed. Compare with errors.Is.
var ErrNoMoreDocuments = errors.New("astra: no more documents in cursor")

// ErrCursorStarted is returned when cursor configuration is mutated after
// the cursor has issued its first fetch.
var ErrCursorStarted = errors.New("astra: cursor already started")

// ErrEmptySlice is returned when a many-document operation is handed no
// documents.
var ErrEmptySlice = errors.New("astra: must provide at least one document")

// ErrTooManyDocuments is returned by CountDocuments when the count
// exceeds the server's counting limit or the caller's upper bound.
var ErrTooManyDocuments = errors.New("astra: too many documents to count")

// ErrorDescriptor is one soft error reported inside an otherwise
// successful Data API reply. The message and errorCode keys are typed;
// all remaining keys of the wire object are kept in Attributes.
type ErrorDescriptor struct {
	ErrorCode  string
	Message    string
	Attributes map[string]any
}

func (e ErrorDescriptor) String() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// DetailedErrorDescriptor pairs one sub-request's command and raw
// response with the error descriptors found in that response.
type DetailedErrorDescriptor struct {
	Command          *api.Command
	RawResponse      *api.Response
	ErrorDescriptors []ErrorDescriptor
}

// DataAPIError is the base error for replies that carried one or more
// soft errors. ErrorDescriptors is always exactly the concatenation of
// the detailed descriptors' errors, in request order.
type DataAPIError struct {
	ErrorDescriptors         []ErrorDescriptor
	DetailedErrorDescriptors []DetailedErrorDescriptor
}

func (e DataAPIError) Error() string {
	var buf bytes.Buffer
	fmt.Fprint(&buf, "data api errors: [")
	for i, desc := range e.ErrorDescriptors {
		if i != 0 {
			fmt.Fprint(&buf, ", ")
		}
		fmt.Fprintf(&buf, "{%s}", desc)
	}
	fmt.Fprint(&buf, "]")
	return buf.String()
}

// InsertManyError is returned when an InsertMany concluded with at least
// one soft error. PartialResult describes every document that was
// successfully inserted before reporting stopped (ordered) or across the
// whole operation (unordered).
type InsertManyError struct {
	DataAPIError
	PartialResult InsertManyResult
}

func (e InsertManyError) Error() string {
	return fmt.Sprintf("insert many error: %d inserted, %s",
		e.PartialResult.InsertedCount, e.DataAPIError.Error())
}

// DeleteManyError is returned when a DeleteMany concluded with at least
// one soft error. PartialResult holds the deletions that did happen.
type DeleteManyError struct {
	DataAPIError
	PartialResult DeleteResult
}

func (e DeleteManyError) Error() string {
	return fmt.Sprintf("delete many error: %d deleted, %s",
		e.PartialResult.DeletedCount, e.DataAPIError.Error())
}

// UpdateManyError is returned when an UpdateMany concluded with at least
// one soft error. PartialResult holds the updates that did happen.
type UpdateManyError struct {
	DataAPIError
	PartialResult UpdateResult
}

func (e UpdateManyError) Error() string {
	return fmt.Sprintf("update many error: %d matched, %d modified, %s",
		e.PartialResult.MatchedCount, e.PartialResult.ModifiedCount, e.DataAPIError.Error())
}

func descriptorsFromRaw(raw []api.RawError) []ErrorDescriptor {
	descs := make([]ErrorDescriptor, 0, len(raw))
	for _, err := range raw {
		descs = append(descs, ErrorDescriptor{
			ErrorCode:  err.ErrorCode,
			Message:    err.Message,
			Attributes: err.Attributes,
		})
	}
	return descs
}

// newDataAPIError builds the aggregate error for a set of detailed
// descriptors, flattening the per-request errors in order.
func newDataAPIError(details []DetailedErrorDescriptor) DataAPIError {
	var flat []ErrorDescriptor
	for _, d := range details {
		flat = append(flat, d.ErrorDescriptors...)
	}
	return DataAPIError{
		ErrorDescriptors:         flat,
		DetailedErrorDescriptors: details,
	}
}

// singleResponseError wraps the soft errors of one reply as a
// DataAPIError. Used by one-shot commands and by cursor page fetches,
// where any soft error fails the whole request.
func singleResponseError(cmd *api.Command, resp *api.Response) DataAPIError {
	return newDataAPIError([]DetailedErrorDescriptor{{
		Command:          cmd,
		RawResponse:      resp,
		ErrorDescriptors: descriptorsFromRaw(resp.Errors),
	}})
}

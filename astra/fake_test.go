// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"
	"strconv"
	"sync"

	"github.com/datastax/astra-db-go/internal/api"
)

// pagingSender serves find commands from a fixed in-memory result set,
// honoring the pageState option. The continuation token is the numeric
// offset of the next page.
type pagingSender struct {
	docs     []map[string]any
	pageSize int

	sortVector []any

	mu    sync.Mutex
	calls []*api.Command
}

func (s *pagingSender) SendCommand(_ context.Context, cmd *api.Command) (*api.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	s.mu.Unlock()

	start := 0
	includeSortVector := false
	if opts, ok := cmd.Body["options"].(map[string]any); ok {
		if token, ok := opts["pageState"].(string); ok {
			start, _ = strconv.Atoi(token)
		}
		includeSortVector, _ = opts["includeSortVector"].(bool)
	}

	end := start + s.pageSize
	if end > len(s.docs) {
		end = len(s.docs)
	}
	page := make([]map[string]any, end-start)
	copy(page, s.docs[start:end])

	resp := &api.Response{Data: &api.DataBlock{Documents: page}}
	if end < len(s.docs) {
		token := strconv.Itoa(end)
		resp.Data.NextPageState = &token
	}
	if includeSortVector && s.sortVector != nil {
		resp.Status = map[string]any{"sortVector": s.sortVector}
	}
	return resp, nil
}

func (s *pagingSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// degenerateSender simulates a malformed server that claims more pages
// exist but always returns an empty page with the same token.
type degenerateSender struct {
	calls int
}

func (s *degenerateSender) SendCommand(context.Context, *api.Command) (*api.Response, error) {
	s.calls++
	token := "stuck"
	return &api.Response{Data: &api.DataBlock{NextPageState: &token}}, nil
}

// scriptedSender plays back a fixed sequence of responses or errors, one
// per call.
type scriptedSender struct {
	script []scriptStep

	mu    sync.Mutex
	calls []*api.Command
}

type scriptStep struct {
	resp *api.Response
	err  error
}

func (s *scriptedSender) SendCommand(_ context.Context, cmd *api.Command) (*api.Response, error) {
	s.mu.Lock()
	i := len(s.calls)
	s.calls = append(s.calls, cmd)
	s.mu.Unlock()

	if i >= len(s.script) {
		return &api.Response{}, nil
	}
	step := s.script[i]
	return step.resp, step.err
}

func (s *scriptedSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// insertSender fakes the server side of insertMany: documents with an
// already-seen _id fail with DOCUMENT_ALREADY_EXISTS, and in ordered mode
// processing stops at the first failure within the request.
type insertSender struct {
	mu      sync.Mutex
	seen    map[any]bool
	calls   []*api.Command
	hardOn  int // 1-based call number that fails hard; 0 = never
	hardErr error
}

func newInsertSender() *insertSender {
	return &insertSender{seen: map[any]bool{}}
}

func (s *insertSender) SendCommand(_ context.Context, cmd *api.Command) (*api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, cmd)
	if s.hardOn > 0 && len(s.calls) == s.hardOn {
		return nil, s.hardErr
	}

	docs, _ := cmd.Body["documents"].([]Document)
	ordered := false
	if opts, ok := cmd.Body["options"].(map[string]any); ok {
		ordered, _ = opts["ordered"].(bool)
	}

	var inserted []any
	var rawErrs []api.RawError
	for _, doc := range docs {
		id := doc["_id"]
		if s.seen[id] {
			rawErrs = append(rawErrs, api.RawError{
				Message:    "Document already exists with the given _id",
				ErrorCode:  "DOCUMENT_ALREADY_EXISTS",
				Attributes: map[string]any{"family": "REQUEST"},
			})
			if ordered {
				break
			}
			continue
		}
		s.seen[id] = true
		inserted = append(inserted, id)
	}

	return &api.Response{
		Status: map[string]any{"insertedIds": inserted},
		Errors: rawErrs,
	}, nil
}

func (s *insertSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// senderFunc adapts a function to the commandSender contract.
type senderFunc func(ctx context.Context, cmd *api.Command) (*api.Response, error)

func (f senderFunc) SendCommand(ctx context.Context, cmd *api.Command) (*api.Response, error) {
	return f(ctx, cmd)
}

func testCollection(sender commandSender) *Collection {
	return &Collection{name: "test", conn: sender}
}

func makeDocs(n int) []map[string]any {
	docs := make([]map[string]any, n)
	for i := range docs {
		docs[i] = map[string]any{"_id": i, "name": "doc" + strconv.Itoa(i)}
	}
	return docs
}

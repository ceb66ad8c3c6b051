// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"
	"errors"

	"github.com/datastax/astra-db-go/internal/api"
)

// CursorState describes where a FindCursor is in its lifecycle.
type CursorState int

const (
	// CursorUninitialized means no fetch has been issued yet and the
	// cursor configuration may still be changed.
	CursorUninitialized CursorState = iota
	// CursorInitialized means at least one page has been fetched.
	CursorInitialized
	// CursorClosed means the cursor is exhausted or was closed; it will
	// never touch the network again.
	CursorClosed
)

func (s CursorState) String() string {
	switch s {
	case CursorUninitialized:
		return "uninitialized"
	case CursorInitialized:
		return "initialized"
	case CursorClosed:
		return "closed"
	}
	return "unknown"
}

// pageStateKind tags the cursor's continuation token. The three states
// are kept explicit rather than encoded in a nullable string.
type pageStateKind int

const (
	pageNotStarted pageStateKind = iota
	pageHasMore
	pageExhausted
)

type pageState struct {
	kind  pageStateKind
	token string
}

// findOptions is the cursor's private option bag. Setters replace fields
// with deep copies so the cursor never shares maps with the caller.
type findOptions struct {
	sort              map[string]any
	projection        map[string]any
	limit             int
	skip              int
	includeSimilarity bool
	includeSortVector bool
}

func (o findOptions) clone() findOptions {
	o.sort = cloneDocument(o.sort)
	o.projection = cloneDocument(o.projection)
	return o
}

// MapFunc transforms a yielded item. It receives the raw Document for an
// unmapped cursor, or the previous transform's output once transforms are
// chained. Returning a nil value is legal and does not mean "no document".
type MapFunc func(any) (any, error)

// FindCursor lazily iterates a paginated result set. Pages are fetched
// one at a time, only when the local buffer runs dry. A FindCursor is not
// safe for concurrent use; calls must be externally serialized.
//
// A typical usage:
//
//	cur := coll.Find(astra.Filter{"kind": "book"})
//	defer cur.Close()
//
//	for {
//		doc, err := cur.Next(ctx)
//		if errors.Is(err, astra.ErrNoMoreDocuments) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		// do something with doc...
//	}
type FindCursor struct {
	conn   commandSender
	filter map[string]any
	opts   findOptions

	state    CursorState
	buffer   []Document
	page     pageState
	mapFn    MapFunc
	consumed int

	sortVector        []float32
	sortVectorFetched bool
}

func newFindCursor(conn commandSender, filter Filter, opts findOptions) *FindCursor {
	return &FindCursor{
		conn:   conn,
		filter: cloneDocument(filter),
		opts:   opts.clone(),
	}
}

// State returns the cursor's lifecycle state.
func (c *FindCursor) State() CursorState { return c.state }

// Consumed returns how many items the cursor has yielded so far.
func (c *FindCursor) Consumed() int { return c.consumed }

// Buffered returns how many fetched items are waiting in the local
// buffer.
func (c *FindCursor) Buffered() int { return len(c.buffer) }

// SetFilter replaces the cursor's filter. The cursor must not have
// started.
func (c *FindCursor) SetFilter(filter Filter) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.filter = cloneDocument(filter)
	return nil
}

// SetSort replaces the sort specification. The cursor must not have
// started.
func (c *FindCursor) SetSort(sort Sort) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.sort = cloneDocument(sort)
	return nil
}

// SetProjection replaces the projection. The cursor must not have
// started.
func (c *FindCursor) SetProjection(projection Projection) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.projection = cloneDocument(projection)
	return nil
}

// SetLimit caps the total number of results. Zero means unbounded; an
// unbounded limit is omitted from the wire command. The cursor must not
// have started.
func (c *FindCursor) SetLimit(limit int) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.limit = limit
	return nil
}

// SetSkip skips the first n results. The cursor must not have started.
func (c *FindCursor) SetSkip(skip int) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.skip = skip
	return nil
}

// SetIncludeSimilarity requests a $similarity field on returned
// documents. The cursor must not have started.
func (c *FindCursor) SetIncludeSimilarity(include bool) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.includeSimilarity = include
	return nil
}

// SetIncludeSortVector requests that the vector used for similarity
// ordering be captured from the first page, for retrieval through
// SortVector. The cursor must not have started.
func (c *FindCursor) SetIncludeSortVector(include bool) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	c.opts.includeSortVector = include
	return nil
}

// Map composes fn onto the cursor's transform chain: fn runs on the
// output of any previously registered transform. The cursor must not
// have started.
func (c *FindCursor) Map(fn MapFunc) error {
	if c.state != CursorUninitialized {
		return ErrCursorStarted
	}
	if prev := c.mapFn; prev != nil {
		c.mapFn = func(v any) (any, error) {
			out, err := prev(v)
			if err != nil {
				return nil, err
			}
			return fn(out)
		}
	} else {
		c.mapFn = fn
	}
	return nil
}

// Next returns the next item, fetching a page if the buffer is empty and
// more pages may exist. Once the result set is exhausted it closes the
// cursor and returns ErrNoMoreDocuments. A transport or transform error
// also closes the cursor and is returned unwrapped.
func (c *FindCursor) Next(ctx context.Context) (any, error) {
	ok, err := c.ensureBuffered(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.Close()
		return nil, ErrNoMoreDocuments
	}

	doc := c.buffer[0]
	c.buffer = c.buffer[1:]
	c.consumed++

	if c.mapFn == nil {
		return doc, nil
	}
	out, err := c.mapFn(doc)
	if err != nil {
		c.Close()
		return nil, err
	}
	return out, nil
}

// HasNext reports whether another item is available, fetching a page if
// necessary. The item stays buffered for the following Next call.
func (c *FindCursor) HasNext(ctx context.Context) (bool, error) {
	ok, err := c.ensureBuffered(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		c.Close()
	}
	return ok, nil
}

// All drains the cursor and returns every remaining item in server
// order. The cursor is closed when All returns, error or not.
func (c *FindCursor) All(ctx context.Context) ([]any, error) {
	defer c.Close()

	var results []any
	for {
		item, err := c.Next(ctx)
		if errors.Is(err, ErrNoMoreDocuments) {
			return results, nil
		}
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
}

// ReadBuffered removes and returns up to max raw documents from the
// local buffer without any network access. A max <= 0 drains the whole
// buffer. Fewer than max are returned if the buffer is smaller.
func (c *FindCursor) ReadBuffered(max int) []Document {
	n := len(c.buffer)
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}
	out := make([]Document, n)
	copy(out, c.buffer[:n])
	c.buffer = c.buffer[n:]
	return out
}

// Rewind discards the buffer and continuation token and returns the
// cursor to its uninitialized state. Configuration, including any
// transform chain, is untouched. Rewinding an unstarted cursor is a
// no-op.
func (c *FindCursor) Rewind() {
	c.buffer = nil
	c.page = pageState{}
	c.state = CursorUninitialized
	c.consumed = 0
	c.sortVector = nil
	c.sortVectorFetched = false
}

// Clone returns a fresh uninitialized cursor with the same filter and
// options but no buffer, no transform chain, and no cached state.
func (c *FindCursor) Clone() *FindCursor {
	return newFindCursor(c.conn, c.filter, c.opts)
}

// SortVector returns the similarity sort vector captured from the first
// page. If the cursor was not configured with SetIncludeSortVector it
// returns nil without touching the network; if configured but nothing
// has been fetched yet, it triggers exactly one page fetch.
func (c *FindCursor) SortVector(ctx context.Context) ([]float32, error) {
	if !c.opts.includeSortVector {
		return nil, nil
	}
	if !c.sortVectorFetched && c.state == CursorUninitialized {
		if err := c.fetchPage(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c.sortVector, nil
}

// Close transitions the cursor to its closed state and discards the
// buffer. It is idempotent and performs no network access.
func (c *FindCursor) Close() {
	c.state = CursorClosed
	c.buffer = nil
}

// ensureBuffered makes the next raw document available in the buffer,
// fetching pages as needed. It returns false once the result set is
// exhausted, the cursor is closed, or the server returns a degenerate
// page (empty, with no token progress).
func (c *FindCursor) ensureBuffered(ctx context.Context) (bool, error) {
	if c.state == CursorClosed {
		return false, nil
	}
	for len(c.buffer) == 0 {
		if c.page.kind == pageExhausted {
			return false, nil
		}
		prev := c.page
		if err := c.fetchPage(ctx); err != nil {
			c.Close()
			return false, err
		}
		if len(c.buffer) == 0 && c.page == prev {
			// The server claims more pages but made no progress; bail
			// out rather than loop forever.
			return false, nil
		}
	}
	return true, nil
}

// fetchPage issues one find command and replaces the buffer with the
// returned page.
func (c *FindCursor) fetchPage(ctx context.Context) error {
	cmd := c.buildCommand()
	resp, err := c.conn.SendCommand(ctx, cmd)
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return singleResponseError(cmd, resp)
	}

	c.state = CursorInitialized

	var docs []map[string]any
	var next *string
	if resp.Data != nil {
		docs = resp.Data.Documents
		next = resp.Data.NextPageState
	}
	c.buffer = make([]Document, 0, len(docs))
	for _, d := range docs {
		c.buffer = append(c.buffer, Document(d))
	}
	if next != nil && *next != "" {
		c.page = pageState{kind: pageHasMore, token: *next}
	} else {
		c.page = pageState{kind: pageExhausted}
	}

	if c.opts.includeSortVector && !c.sortVectorFetched {
		c.sortVector = sortVectorFromStatus(resp)
		c.sortVectorFetched = true
	}
	return nil
}

func (c *FindCursor) buildCommand() *api.Command {
	cmd := api.NewCommand("find").SetRetryable()
	if len(c.filter) != 0 {
		cmd.Set("filter", c.filter)
	}
	if len(c.opts.sort) != 0 {
		cmd.Set("sort", c.opts.sort)
	}
	if len(c.opts.projection) != 0 {
		cmd.Set("projection", c.opts.projection)
	}

	opts := map[string]any{}
	if c.opts.limit > 0 {
		opts["limit"] = c.opts.limit
	}
	if c.opts.skip > 0 {
		opts["skip"] = c.opts.skip
	}
	if c.opts.includeSimilarity {
		opts["includeSimilarity"] = true
	}
	if c.opts.includeSortVector && !c.sortVectorFetched {
		opts["includeSortVector"] = true
	}
	if c.page.kind == pageHasMore {
		opts["pageState"] = c.page.token
	}
	if len(opts) != 0 {
		cmd.Set("options", opts)
	}
	return cmd
}

func sortVectorFromStatus(resp *api.Response) []float32 {
	raw := statusSlice(resp, "sortVector")
	if raw == nil {
		return nil
	}
	vec := make([]float32, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		vec = append(vec, float32(f))
	}
	return vec
}

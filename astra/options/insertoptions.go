// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

// InsertManyOptions represent all possible options to the InsertMany()
// function.
type InsertManyOptions struct {
	// Ordered selects the execution discipline. When true (the default),
	// chunks are sent one at a time in input order and the operation
	// stops at the first chunk reporting an error. When false, chunks
	// are sent concurrently and every chunk is attempted.
	Ordered *bool
	// ChunkSize is the maximum number of documents per request.
	ChunkSize *int
	// Concurrency bounds how many requests are in flight at once. Only
	// meaningful for unordered inserts.
	Concurrency *int
}

// InsertMany creates a new InsertManyOptions instance.
func InsertMany() *InsertManyOptions {
	return &InsertManyOptions{}
}

// SetOrdered selects ordered or unordered execution.
func (i *InsertManyOptions) SetOrdered(b bool) *InsertManyOptions {
	i.Ordered = &b
	return i
}

// SetChunkSize sets the maximum number of documents per request.
func (i *InsertManyOptions) SetChunkSize(n int) *InsertManyOptions {
	i.ChunkSize = &n
	return i
}

// SetConcurrency bounds how many unordered requests are in flight at
// once.
func (i *InsertManyOptions) SetConcurrency(n int) *InsertManyOptions {
	i.Concurrency = &n
	return i
}

// MergeInsertManyOptions combines the given InsertManyOptions instances
// into a single one, with later values taking precedence.
func MergeInsertManyOptions(opts ...*InsertManyOptions) *InsertManyOptions {
	io := InsertMany()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Ordered != nil {
			io.Ordered = opt.Ordered
		}
		if opt.ChunkSize != nil {
			io.ChunkSize = opt.ChunkSize
		}
		if opt.Concurrency != nil {
			io.Concurrency = opt.Concurrency
		}
	}
	return io
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"

	"github.com/datastax/astra-db-go/astra/options"
)

// Table is a handle to a Data API table. Rows are plain Documents to
// this library; tables share the cursor and batch machinery with
// collections and differ only in the resource they address.
type Table struct {
	name string
	db   *Database
	conn commandSender
}

// Name returns the name of the table.
func (t *Table) Name() string { return t.name }

// Database returns the Database the table belongs to.
func (t *Table) Database() *Database { return t.db }

// Find returns a lazy cursor over all rows matching filter.
func (t *Table) Find(filter Filter, opts ...*options.FindOptions) *FindCursor {
	return newCursorWithOptions(t.conn, filter, options.MergeFindOptions(opts...))
}

// FindOne returns the first row matching filter, or ErrNoDocuments if
// nothing matched.
func (t *Table) FindOne(ctx context.Context, filter Filter,
	opts ...*options.FindOneOptions) (Document, error) {
	return findOne(ctx, t.conn, filter, options.MergeFindOneOptions(opts...))
}

// InsertOne inserts a single row.
func (t *Table) InsertOne(ctx context.Context, row Document) (*InsertOneResult, error) {
	return insertOne(ctx, t.conn, row)
}

// InsertMany inserts the given rows with the same chunking, ordering and
// error semantics as Collection.InsertMany.
func (t *Table) InsertMany(ctx context.Context, rows []Document,
	opts ...*options.InsertManyOptions) (*InsertManyResult, error) {
	return insertMany(ctx, t.conn, rows, options.MergeInsertManyOptions(opts...))
}

// UpdateOne updates the row matching filter.
func (t *Table) UpdateOne(ctx context.Context, filter Filter, update Update,
	opts ...*options.UpdateOptions) (*UpdateResult, error) {
	return updateOne(ctx, t.conn, filter, update, options.MergeUpdateOptions(opts...))
}

// DeleteOne deletes the row matching filter.
func (t *Table) DeleteOne(ctx context.Context, filter Filter,
	opts ...*options.DeleteOneOptions) (*DeleteResult, error) {
	return deleteOne(ctx, t.conn, filter, options.MergeDeleteOneOptions(opts...))
}

// DeleteMany deletes every row matching filter with the same looping and
// error semantics as Collection.DeleteMany.
func (t *Table) DeleteMany(ctx context.Context, filter Filter) (*DeleteResult, error) {
	return deleteMany(ctx, t.conn, filter)
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"
	"errors"

	"github.com/datastax/astra-db-go/astra/options"
	"github.com/datastax/astra-db-go/internal/api"
)

// Collection is a handle to a Data API collection. It is safe for
// concurrent use, though the cursors it produces are not.
type Collection struct {
	name string
	db   *Database
	conn commandSender
}

// Name returns the name of the collection.
func (coll *Collection) Name() string { return coll.name }

// Database returns the Database the collection belongs to.
func (coll *Collection) Database() *Database { return coll.db }

// Find returns a lazy cursor over all documents matching filter. No
// request is issued until the cursor is first consumed.
func (coll *Collection) Find(filter Filter, opts ...*options.FindOptions) *FindCursor {
	return newCursorWithOptions(coll.conn, filter, options.MergeFindOptions(opts...))
}

// FindOne returns the first document matching filter, or ErrNoDocuments
// if nothing matched.
func (coll *Collection) FindOne(ctx context.Context, filter Filter,
	opts ...*options.FindOneOptions) (Document, error) {
	return findOne(ctx, coll.conn, filter, options.MergeFindOneOptions(opts...))
}

// InsertOne inserts a single document.
func (coll *Collection) InsertOne(ctx context.Context, document Document) (*InsertOneResult, error) {
	return insertOne(ctx, coll.conn, document)
}

// InsertMany inserts the given documents, issuing as many requests as
// needed. With ordered execution (the default) documents are sent in
// chunks one request at a time and the operation stops at the first
// chunk reporting an error, so the inserted set is a contiguous prefix
// of the input. With unordered execution chunks are sent concurrently
// and every chunk is attempted.
//
// When any request reports a soft error, InsertMany returns the partial
// result together with an *InsertManyError carrying every error
// descriptor and the same partial result. A hard transport error is
// returned as-is, with no result.
func (coll *Collection) InsertMany(ctx context.Context, documents []Document,
	opts ...*options.InsertManyOptions) (*InsertManyResult, error) {
	return insertMany(ctx, coll.conn, documents, options.MergeInsertManyOptions(opts...))
}

// UpdateOne updates the first document matching filter.
func (coll *Collection) UpdateOne(ctx context.Context, filter Filter, update Update,
	opts ...*options.UpdateOptions) (*UpdateResult, error) {
	return updateOne(ctx, coll.conn, filter, update, options.MergeUpdateOptions(opts...))
}

// UpdateMany updates every document matching filter, repeating the
// request for as long as the server reports more matching documents
// remain. The accumulated counts are returned; a response carrying soft
// errors stops the loop and yields an *UpdateManyError with the partial
// result.
func (coll *Collection) UpdateMany(ctx context.Context, filter Filter, update Update,
	opts ...*options.UpdateManyOptions) (*UpdateResult, error) {
	return updateMany(ctx, coll.conn, filter, update, options.MergeUpdateManyOptions(opts...))
}

// ReplaceOne replaces the first document matching filter.
func (coll *Collection) ReplaceOne(ctx context.Context, filter Filter, replacement Document,
	opts ...*options.ReplaceOptions) (*UpdateResult, error) {
	return replaceOne(ctx, coll.conn, filter, replacement, options.MergeReplaceOptions(opts...))
}

// DeleteOne deletes the first document matching filter.
func (coll *Collection) DeleteOne(ctx context.Context, filter Filter,
	opts ...*options.DeleteOneOptions) (*DeleteResult, error) {
	return deleteOne(ctx, coll.conn, filter, options.MergeDeleteOneOptions(opts...))
}

// DeleteMany deletes every document matching filter, repeating the
// request for as long as the server reports more matching documents
// remain. A response carrying soft errors stops the loop and yields a
// *DeleteManyError with the partial result.
func (coll *Collection) DeleteMany(ctx context.Context, filter Filter) (*DeleteResult, error) {
	return deleteMany(ctx, coll.conn, filter)
}

// CountDocuments counts the documents matching filter. The count must
// not exceed upperBound, and upperBound must be positive; if the server
// cannot produce an exact count, or the count exceeds the bound,
// ErrTooManyDocuments is returned.
func (coll *Collection) CountDocuments(ctx context.Context, filter Filter, upperBound int) (int64, error) {
	return countDocuments(ctx, coll.conn, filter, upperBound)
}

// EstimatedDocumentCount returns the server's estimate of the number of
// documents in the collection.
func (coll *Collection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	cmd := api.NewCommand("estimatedDocumentCount").SetRetryable()
	resp, err := coll.conn.SendCommand(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if len(resp.Errors) > 0 {
		return 0, singleResponseError(cmd, resp)
	}
	return statusInt(resp, "count"), nil
}

// FindOneAndUpdate updates the first document matching filter and
// returns it, as it was before or after the update depending on the
// ReturnDocument option (before by default).
func (coll *Collection) FindOneAndUpdate(ctx context.Context, filter Filter, update Update,
	opts ...*options.FindOneAndUpdateOptions) (Document, error) {
	fo := options.MergeFindOneAndUpdateOptions(opts...)

	cmdOpts := map[string]any{}
	if fo.ReturnDocument != nil {
		cmdOpts["returnDocument"] = string(*fo.ReturnDocument)
	}
	if fo.Upsert != nil {
		cmdOpts["upsert"] = *fo.Upsert
	}
	cmd := api.NewCommand("findOneAndUpdate").
		Set("filter", map[string]any(filter)).
		Set("update", map[string]any(update))
	if fo.Sort != nil {
		cmd.Set("sort", fo.Sort)
	}
	if fo.Projection != nil {
		cmd.Set("projection", fo.Projection)
	}
	if len(cmdOpts) != 0 {
		cmd.Set("options", cmdOpts)
	}
	return sendForDocument(ctx, coll.conn, cmd)
}

// FindOneAndReplace replaces the first document matching filter and
// returns it, as it was before or after the replacement depending on the
// ReturnDocument option (before by default).
func (coll *Collection) FindOneAndReplace(ctx context.Context, filter Filter, replacement Document,
	opts ...*options.FindOneAndReplaceOptions) (Document, error) {
	fo := options.MergeFindOneAndReplaceOptions(opts...)

	cmdOpts := map[string]any{}
	if fo.ReturnDocument != nil {
		cmdOpts["returnDocument"] = string(*fo.ReturnDocument)
	}
	if fo.Upsert != nil {
		cmdOpts["upsert"] = *fo.Upsert
	}
	cmd := api.NewCommand("findOneAndReplace").
		Set("filter", map[string]any(filter)).
		Set("replacement", map[string]any(replacement))
	if fo.Sort != nil {
		cmd.Set("sort", fo.Sort)
	}
	if fo.Projection != nil {
		cmd.Set("projection", fo.Projection)
	}
	if len(cmdOpts) != 0 {
		cmd.Set("options", cmdOpts)
	}
	return sendForDocument(ctx, coll.conn, cmd)
}

// FindOneAndDelete deletes the first document matching filter and
// returns it.
func (coll *Collection) FindOneAndDelete(ctx context.Context, filter Filter,
	opts ...*options.FindOneAndDeleteOptions) (Document, error) {
	fo := options.MergeFindOneAndDeleteOptions(opts...)

	cmd := api.NewCommand("findOneAndDelete").Set("filter", map[string]any(filter))
	if fo.Sort != nil {
		cmd.Set("sort", fo.Sort)
	}
	if fo.Projection != nil {
		cmd.Set("projection", fo.Projection)
	}
	return sendForDocument(ctx, coll.conn, cmd)
}

// Drop deletes the collection and all of its documents.
func (coll *Collection) Drop(ctx context.Context) error {
	return coll.db.DropCollection(ctx, coll.name)
}

// Shared operation implementations. Collections and tables expose the
// same wire operations over different resource paths, so the real work
// is done here against the commandSender contract.

func newCursorWithOptions(conn commandSender, filter Filter, fo *options.FindOptions) *FindCursor {
	var opts findOptions
	opts.sort = fo.Sort
	opts.projection = fo.Projection
	if fo.Limit != nil {
		opts.limit = *fo.Limit
	}
	if fo.Skip != nil {
		opts.skip = *fo.Skip
	}
	if fo.IncludeSimilarity != nil {
		opts.includeSimilarity = *fo.IncludeSimilarity
	}
	if fo.IncludeSortVector != nil {
		opts.includeSortVector = *fo.IncludeSortVector
	}
	return newFindCursor(conn, filter, opts)
}

func findOne(ctx context.Context, conn commandSender, filter Filter, fo *options.FindOneOptions) (Document, error) {
	cmd := api.NewCommand("findOne").SetRetryable()
	if len(filter) != 0 {
		cmd.Set("filter", map[string]any(filter))
	}
	if fo.Sort != nil {
		cmd.Set("sort", fo.Sort)
	}
	if fo.Projection != nil {
		cmd.Set("projection", fo.Projection)
	}
	if fo.IncludeSimilarity != nil && *fo.IncludeSimilarity {
		cmd.Set("options", map[string]any{"includeSimilarity": true})
	}
	return sendForDocument(ctx, conn, cmd)
}

func sendForDocument(ctx context.Context, conn commandSender, cmd *api.Command) (Document, error) {
	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	if resp.Data == nil || resp.Data.Document == nil {
		return nil, ErrNoDocuments
	}
	return Document(resp.Data.Document), nil
}

func insertOne(ctx context.Context, conn commandSender, document Document) (*InsertOneResult, error) {
	cmd := api.NewCommand("insertOne").Set("document", map[string]any(document))
	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	res := &InsertOneResult{}
	if ids := statusSlice(resp, "insertedIds"); len(ids) > 0 {
		res.InsertedID = ids[0]
	}
	return res, nil
}

func insertMany(ctx context.Context, conn commandSender, documents []Document,
	imo *options.InsertManyOptions) (*InsertManyResult, error) {
	if len(documents) == 0 {
		return nil, ErrEmptySlice
	}

	ordered := true
	if imo.Ordered != nil {
		ordered = *imo.Ordered
	}
	chunkSize := defaultChunkSize
	if imo.ChunkSize != nil && *imo.ChunkSize > 0 {
		chunkSize = *imo.ChunkSize
	}
	concurrency := defaultConcurrency
	if imo.Concurrency != nil && *imo.Concurrency > 0 {
		concurrency = *imo.Concurrency
	}

	n := chunkCount(len(documents), chunkSize)
	insertedIDs := make([][]any, n)

	build := func(i int) *api.Command {
		lo, hi := chunkRange(i, chunkSize, len(documents))
		return api.NewCommand("insertMany").
			Set("documents", documents[lo:hi]).
			Set("options", map[string]any{"ordered": ordered})
	}
	merge := func(i int, resp *api.Response) {
		insertedIDs[i] = statusSlice(resp, "insertedIds")
	}

	details, err := runChunks(ctx, conn, n, ordered, concurrency, build, merge)
	if err != nil {
		return nil, err
	}

	res := &InsertManyResult{}
	for _, ids := range insertedIDs {
		res.InsertedIDs = append(res.InsertedIDs, ids...)
	}
	res.InsertedCount = int64(len(res.InsertedIDs))

	if len(details) > 0 {
		return res, &InsertManyError{
			DataAPIError:  newDataAPIError(details),
			PartialResult: *res,
		}
	}
	return res, nil
}

func updateOne(ctx context.Context, conn commandSender, filter Filter, update Update,
	uo *options.UpdateOptions) (*UpdateResult, error) {
	cmd := api.NewCommand("updateOne").
		Set("filter", map[string]any(filter)).
		Set("update", map[string]any(update))
	if uo.Sort != nil {
		cmd.Set("sort", uo.Sort)
	}
	if uo.Upsert != nil {
		cmd.Set("options", map[string]any{"upsert": *uo.Upsert})
	}

	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	return updateResultFromStatus(resp), nil
}

func updateMany(ctx context.Context, conn commandSender, filter Filter, update Update,
	uo *options.UpdateManyOptions) (*UpdateResult, error) {
	res := &UpdateResult{}
	pageState := ""
	for {
		cmdOpts := map[string]any{}
		if uo.Upsert != nil {
			cmdOpts["upsert"] = *uo.Upsert
		}
		if pageState != "" {
			cmdOpts["pageState"] = pageState
		}
		cmd := api.NewCommand("updateMany").
			Set("filter", map[string]any(filter)).
			Set("update", map[string]any(update))
		if len(cmdOpts) != 0 {
			cmd.Set("options", cmdOpts)
		}

		resp, err := conn.SendCommand(ctx, cmd)
		if err != nil {
			return nil, err
		}

		res.MatchedCount += statusInt(resp, "matchedCount")
		res.ModifiedCount += statusInt(resp, "modifiedCount")
		if id, ok := statusValue(resp, "upsertedId"); ok {
			res.UpsertedID = id
			res.UpsertedCount++
		}

		if len(resp.Errors) > 0 {
			return res, &UpdateManyError{
				DataAPIError:  singleResponseError(cmd, resp),
				PartialResult: *res,
			}
		}

		next, ok := statusString(resp, "nextPageState")
		if !ok || next == "" {
			return res, nil
		}
		pageState = next
	}
}

func replaceOne(ctx context.Context, conn commandSender, filter Filter, replacement Document,
	ro *options.ReplaceOptions) (*UpdateResult, error) {
	cmdOpts := map[string]any{}
	if ro.Upsert != nil {
		cmdOpts["upsert"] = *ro.Upsert
	}
	cmd := api.NewCommand("findOneAndReplace").
		Set("filter", map[string]any(filter)).
		Set("replacement", map[string]any(replacement)).
		Set("projection", map[string]any{"_id": 0})
	if ro.Sort != nil {
		cmd.Set("sort", ro.Sort)
	}
	if len(cmdOpts) != 0 {
		cmd.Set("options", cmdOpts)
	}

	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	return updateResultFromStatus(resp), nil
}

func deleteOne(ctx context.Context, conn commandSender, filter Filter,
	do *options.DeleteOneOptions) (*DeleteResult, error) {
	cmd := api.NewCommand("deleteOne").Set("filter", map[string]any(filter))
	if do.Sort != nil {
		cmd.Set("sort", do.Sort)
	}

	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	return &DeleteResult{DeletedCount: statusInt(resp, "deletedCount")}, nil
}

func deleteMany(ctx context.Context, conn commandSender, filter Filter) (*DeleteResult, error) {
	res := &DeleteResult{}
	for {
		cmd := api.NewCommand("deleteMany").Set("filter", map[string]any(filter))
		resp, err := conn.SendCommand(ctx, cmd)
		if err != nil {
			return nil, err
		}

		res.DeletedCount += statusInt(resp, "deletedCount")

		if len(resp.Errors) > 0 {
			return res, &DeleteManyError{
				DataAPIError:  singleResponseError(cmd, resp),
				PartialResult: *res,
			}
		}
		if !statusBool(resp, "moreData") {
			return res, nil
		}
	}
}

func countDocuments(ctx context.Context, conn commandSender, filter Filter, upperBound int) (int64, error) {
	if upperBound <= 0 {
		return 0, errors.New("astra: count upper bound must be positive")
	}
	cmd := api.NewCommand("countDocuments").SetRetryable()
	if len(filter) != 0 {
		cmd.Set("filter", map[string]any(filter))
	}

	resp, err := conn.SendCommand(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if len(resp.Errors) > 0 {
		return 0, singleResponseError(cmd, resp)
	}

	count := statusInt(resp, "count")
	if statusBool(resp, "moreData") || count > int64(upperBound) {
		return 0, ErrTooManyDocuments
	}
	return count, nil
}

func updateResultFromStatus(resp *api.Response) *UpdateResult {
	res := &UpdateResult{
		MatchedCount:  statusInt(resp, "matchedCount"),
		ModifiedCount: statusInt(resp, "modifiedCount"),
	}
	if id, ok := statusValue(resp, "upsertedId"); ok {
		res.UpsertedID = id
		res.UpsertedCount = 1
	}
	return res
}

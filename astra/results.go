// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

// InsertOneResult is the result of an InsertOne operation.
type InsertOneResult struct {
	// The identifier of the inserted document.
	InsertedID any
}

// InsertManyResult is the result of an InsertMany operation. When
// InsertMany returns an *InsertManyError, the error's PartialResult holds
// the same shape describing what did succeed.
type InsertManyResult struct {
	// The identifiers of the successfully inserted documents.
	InsertedIDs []any
	// The number of successfully inserted documents.
	InsertedCount int64
}

// DeleteResult is the result of a DeleteOne or DeleteMany operation.
type DeleteResult struct {
	// The number of documents that were deleted.
	DeletedCount int64
}

// UpdateResult is the result of an update operation.
type UpdateResult struct {
	// The number of documents that matched the filter.
	MatchedCount int64
	// The number of documents that were modified.
	ModifiedCount int64
	// The number of documents that were upserted.
	UpsertedCount int64
	// The identifier of the upserted document, if an upsert took place.
	UpsertedID any
}

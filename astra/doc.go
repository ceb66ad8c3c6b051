// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package astra is a client for the Data API, the JSON command protocol
// exposed over HTTP by Astra databases.
//
// A Client is constructed from a database endpoint and an application
// token, and hands out Database, Collection and Table handles:
//
//	client, err := astra.NewClient(endpoint, token)
//	if err != nil {
//		log.Fatal(err)
//	}
//	coll := client.Database("").Collection("users")
//
// Reads that may span multiple pages go through a FindCursor, which
// fetches pages lazily as it is consumed:
//
//	cur := coll.Find(astra.Filter{"active": true})
//	docs, err := cur.All(ctx)
//
// Many-document writes (InsertMany, DeleteMany, UpdateMany) may issue
// several requests for one call. On partial failure they return a typed
// error (InsertManyError, DeleteManyError, UpdateManyError) carrying
// every error descriptor together with the partial result that was
// achieved, so callers can audit or resume:
//
//	res, err := coll.InsertMany(ctx, docs)
//	var imErr *astra.InsertManyError
//	if errors.As(err, &imErr) {
//		log.Printf("inserted %d of %d", imErr.PartialResult.InsertedCount, len(docs))
//	}
//
// Hard transport failures (network errors, non-2xx statuses, malformed
// bodies) are always returned as-is and never aggregated.
package astra

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/pkg/errors"

	"github.com/datastax/astra-db-go/astra"
	"github.com/datastax/astra-db-go/astra/options"
)

const serverPageSize = 20

// dataAPIStub answers find, findOne and insertMany commands with
// synthetic data. Pagination tokens are plain numeric offsets, so the
// client's page-state handling is exercised for real.
type dataAPIStub struct {
	totalDocs int
}

func (s *dataAPIStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var wire map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for name, body := range wire {
			switch name {
			case "find":
				s.handleFind(w, body)
			case "findOne":
				writeJSON(w, map[string]any{
					"data": map[string]any{"document": syntheticDoc(0)},
				})
			case "insertMany":
				docs, _ := body["documents"].([]any)
				ids := make([]any, len(docs))
				for i := range docs {
					ids[i] = i
				}
				writeJSON(w, map[string]any{
					"status": map[string]any{"insertedIds": ids},
				})
			default:
				http.Error(w, "unknown command "+name, http.StatusBadRequest)
			}
			return
		}
	})
}

func (s *dataAPIStub) handleFind(w http.ResponseWriter, body map[string]any) {
	offset := 0
	if opts, ok := body["options"].(map[string]any); ok {
		if token, ok := opts["pageState"].(string); ok {
			offset, _ = strconv.Atoi(token)
		}
	}

	end := offset + serverPageSize
	if end > s.totalDocs {
		end = s.totalDocs
	}
	docs := make([]any, 0, end-offset)
	for i := offset; i < end; i++ {
		docs = append(docs, syntheticDoc(i))
	}

	data := map[string]any{"documents": docs}
	if end < s.totalDocs {
		data["nextPageState"] = strconv.Itoa(end)
	}
	writeJSON(w, map[string]any{"data": data})
}

func syntheticDoc(i int) map[string]any {
	return map[string]any{
		"_id":    i,
		"name":   fmt.Sprintf("item-%d", i),
		"score":  float64(i) * 1.5,
		"active": i%2 == 0,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// benchEnv owns the stub server and a collection handle pointed at it.
type benchEnv struct {
	server *httptest.Server
	coll   *astra.Collection
}

func newBenchEnv(totalDocs int) (*benchEnv, error) {
	stub := &dataAPIStub{totalDocs: totalDocs}
	server := httptest.NewServer(stub.handler())

	client, err := astra.NewClient(server.URL, "benchmark-token")
	if err != nil {
		server.Close()
		return nil, err
	}
	return &benchEnv{
		server: server,
		coll:   client.Database("bench").Collection("items"),
	}, nil
}

func (e *benchEnv) Close() { e.server.Close() }

// CursorDrainCase reads count documents through the paginating cursor.
func CursorDrainCase(ctx context.Context, count int) error {
	env, err := newBenchEnv(count)
	if err != nil {
		return err
	}
	defer env.Close()

	docs, err := env.coll.Find(astra.Filter{}).All(ctx)
	if err != nil {
		return err
	}
	if len(docs) != count {
		return errors.Errorf("drained %d documents, want %d", len(docs), count)
	}
	return nil
}

// FindOneCase issues count single-document lookups.
func FindOneCase(ctx context.Context, count int) error {
	env, err := newBenchEnv(1)
	if err != nil {
		return err
	}
	defer env.Close()

	for i := 0; i < count; i++ {
		if _, err := env.coll.FindOne(ctx, astra.Filter{"_id": 0}); err != nil {
			return err
		}
	}
	return nil
}

// InsertManyOrderedCase writes count documents serially in chunks.
func InsertManyOrderedCase(ctx context.Context, count int) error {
	return insertManyCase(ctx, count, options.InsertMany().SetOrdered(true))
}

// InsertManyUnorderedCase writes count documents with concurrent chunks.
func InsertManyUnorderedCase(ctx context.Context, count int) error {
	return insertManyCase(ctx, count, options.InsertMany().SetOrdered(false).SetConcurrency(8))
}

func insertManyCase(ctx context.Context, count int, opts *options.InsertManyOptions) error {
	env, err := newBenchEnv(0)
	if err != nil {
		return err
	}
	defer env.Close()

	docs := make([]astra.Document, count)
	for i := range docs {
		docs[i] = astra.Document(syntheticDoc(i))
	}
	res, err := env.coll.InsertMany(ctx, docs, opts)
	if err != nil {
		return err
	}
	if res.InsertedCount != int64(count) {
		return errors.Errorf("inserted %d documents, want %d", res.InsertedCount, count)
	}
	return nil
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastax/astra-db-go/astra/options"
	"github.com/datastax/astra-db-go/internal/api"
)

func testDatabase(sender *scriptedSender) *Database {
	return &Database{
		keyspace: DefaultKeyspace,
		client:   &Client{},
		basePath: apiVersionPath + "/" + DefaultKeyspace,
		conn:     sender,
	}
}

func TestCreateCollection(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"ok": float64(1)}}},
	}}
	db := testDatabase(sender)

	coll, err := db.CreateCollection(context.Background(), "vectors",
		options.CreateCollection().SetVector(1536, "cosine").SetDefaultID("uuid"))
	require.NoError(t, err)
	assert.Equal(t, "vectors", coll.Name())

	cmd := sender.calls[0]
	assert.Equal(t, "createCollection", cmd.Name)
	assert.Equal(t, "vectors", cmd.Body["name"])
	opts, ok := cmd.Body["options"].(map[string]any)
	require.True(t, ok)
	vec, ok := opts["vector"].(*options.VectorOptions)
	require.True(t, ok)
	assert.Equal(t, 1536, vec.Dimension)
	assert.Equal(t, "cosine", vec.Metric)
}

func TestDropCollection(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"ok": float64(1)}}},
	}}
	db := testDatabase(sender)

	require.NoError(t, db.DropCollection(context.Background(), "stale"))
	cmd := sender.calls[0]
	assert.Equal(t, "deleteCollection", cmd.Name)
	assert.Equal(t, "stale", cmd.Body["name"])
}

func TestListCollectionNames(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"collections": []any{"a", "b"}}}},
	}}
	db := testDatabase(sender)

	names, err := db.ListCollectionNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, "findCollections", sender.calls[0].Name)
}

func TestListCollections(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"collections": []any{
			map[string]any{"name": "a", "options": map[string]any{"vector": map[string]any{"dimension": float64(3)}}},
			map[string]any{"name": "b"},
		}}}},
	}}
	db := testDatabase(sender)

	infos, err := db.ListCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.NotNil(t, infos[0].Options)
	assert.Equal(t, "b", infos[1].Name)

	opts, ok := sender.calls[0].Body["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, opts["explain"])
}

func TestCreateCollectionSoftError(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Errors: []api.RawError{{
			Message: "Too many indexes", ErrorCode: "TOO_MANY_INDEXES",
		}}}},
	}}
	db := testDatabase(sender)

	_, err := db.CreateCollection(context.Background(), "nope")
	var apiErr DataAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "TOO_MANY_INDEXES", apiErr.ErrorDescriptors[0].ErrorCode)
}

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

func TestInsertOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"insertedIds": []any{"id-1"}}}},
	}}
	coll := testCollection(sender)

	res, err := coll.InsertOne(context.Background(), Document{"_id": "id-1", "name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", res.InsertedID)

	cmd := sender.calls[0]
	assert.Equal(t, "insertOne", cmd.Name)
	assert.Equal(t, map[string]any{"_id": "id-1", "name": "x"}, cmd.Body["document"])
}

func TestInsertOneSoftError(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Errors: []api.RawError{{
			Message: "Document already exists", ErrorCode: "DOCUMENT_ALREADY_EXISTS",
		}}}},
	}}
	coll := testCollection(sender)

	_, err := coll.InsertOne(context.Background(), Document{"_id": "id-1"})
	var apiErr DataAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DOCUMENT_ALREADY_EXISTS", apiErr.ErrorDescriptors[0].ErrorCode)
}

func TestFindOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Data: &api.DataBlock{Document: map[string]any{"_id": "a", "n": float64(1)}}}},
		{resp: &api.Response{Data: &api.DataBlock{}}},
	}}
	coll := testCollection(sender)

	doc, err := coll.FindOne(context.Background(), Filter{"_id": "a"},
		options.FindOne().SetProjection(map[string]any{"n": 1}))
	require.NoError(t, err)
	assert.Equal(t, "a", doc["_id"])

	cmd := sender.calls[0]
	assert.Equal(t, "findOne", cmd.Name)
	assert.True(t, cmd.Retryable)
	assert.Equal(t, map[string]any{"n": 1}, cmd.Body["projection"])

	_, err = coll.FindOne(context.Background(), Filter{"_id": "missing"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestFindOneDecode(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Data: &api.DataBlock{Document: map[string]any{"_id": "a", "age": float64(30)}}}},
	}}
	coll := testCollection(sender)

	doc, err := coll.FindOne(context.Background(), Filter{"_id": "a"})
	require.NoError(t, err)

	var out struct {
		ID  string `json:"_id"`
		Age int    `json:"age"`
	}
	require.NoError(t, DecodeDocument(doc, &out))
	assert.Equal(t, "a", out.ID)
	assert.Equal(t, 30, out.Age)
}

func TestUpdateOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"matchedCount": float64(1), "modifiedCount": float64(1)}}},
	}}
	coll := testCollection(sender)

	res, err := coll.UpdateOne(context.Background(), Filter{"_id": "a"},
		Update{"$set": map[string]any{"n": 2}},
		options.Update().SetUpsert(true))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
	assert.EqualValues(t, 0, res.UpsertedCount)

	cmd := sender.calls[0]
	assert.Equal(t, "updateOne", cmd.Name)
	assert.Equal(t, map[string]any{"upsert": true}, cmd.Body["options"])
}

func TestDeleteOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{"deletedCount": float64(1)}}},
	}}
	coll := testCollection(sender)

	res, err := coll.DeleteOne(context.Background(), Filter{"_id": "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DeletedCount)
	assert.Equal(t, "deleteOne", sender.calls[0].Name)
}

func TestCountDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("within bound", func(t *testing.T) {
		sender := &scriptedSender{script: []scriptStep{
			{resp: &api.Response{Status: map[string]any{"count": float64(42)}}},
		}}
		n, err := testCollection(sender).CountDocuments(ctx, Filter{}, 100)
		require.NoError(t, err)
		assert.EqualValues(t, 42, n)
	})

	t.Run("over bound", func(t *testing.T) {
		sender := &scriptedSender{script: []scriptStep{
			{resp: &api.Response{Status: map[string]any{"count": float64(42)}}},
		}}
		_, err := testCollection(sender).CountDocuments(ctx, Filter{}, 10)
		assert.ErrorIs(t, err, ErrTooManyDocuments)
	})

	t.Run("server could not finish counting", func(t *testing.T) {
		sender := &scriptedSender{script: []scriptStep{
			{resp: &api.Response{Status: map[string]any{"count": float64(1000), "moreData": true}}},
		}}
		_, err := testCollection(sender).CountDocuments(ctx, Filter{}, 2000)
		assert.ErrorIs(t, err, ErrTooManyDocuments)
	})

	t.Run("invalid bound", func(t *testing.T) {
		_, err := testCollection(&scriptedSender{}).CountDocuments(ctx, Filter{}, 0)
		assert.Error(t, err)
	})
}

func TestFindOneAndUpdate(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{
			Data:   &api.DataBlock{Document: map[string]any{"_id": "a", "n": float64(2)}},
			Status: map[string]any{"matchedCount": float64(1), "modifiedCount": float64(1)},
		}},
	}}
	coll := testCollection(sender)

	doc, err := coll.FindOneAndUpdate(context.Background(), Filter{"_id": "a"},
		Update{"$inc": map[string]any{"n": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	require.NoError(t, err)
	assert.Equal(t, float64(2), doc["n"])

	cmd := sender.calls[0]
	assert.Equal(t, "findOneAndUpdate", cmd.Name)
	opts, ok := cmd.Body["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "after", opts["returnDocument"])
}

func TestReplaceOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{
		{resp: &api.Response{Status: map[string]any{
			"matchedCount": float64(1), "modifiedCount": float64(1),
		}}},
	}}
	coll := testCollection(sender)

	res, err := coll.ReplaceOne(context.Background(), Filter{"_id": "a"}, Document{"name": "b"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.Equal(t, "findOneAndReplace", sender.calls[0].Name)
}

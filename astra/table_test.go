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

	"github.com/datastax/astra-db-go/internal/api"
)

func testTable(sender commandSender) *Table {
	return &Table{name: "rows", conn: sender}
}

func TestTableFindSharesCursorMachinery(t *testing.T) {
	sender := &pagingSender{docs: makeDocs(12), pageSize: 5}
	table := testTable(sender)

	rows, err := table.Find(Filter{}).All(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 12)
	assert.Equal(t, 3, sender.callCount())
}

func TestTableInsertOne(t *testing.T) {
	sender := &scriptedSender{script: []scriptStep{{
		resp: &api.Response{Status: map[string]any{"insertedIds": []any{"row-1"}}},
	}}}
	table := testTable(sender)

	res, err := table.InsertOne(context.Background(), Document{"_id": "row-1"})
	require.NoError(t, err)
	assert.Equal(t, "row-1", res.InsertedID)

	require.Equal(t, 1, sender.callCount())
	assert.Equal(t, "insertOne", sender.calls[0].Name)
}

func TestTableInsertManyChunksLikeCollections(t *testing.T) {
	sender := newInsertSender()
	table := testTable(sender)

	res, err := table.InsertMany(context.Background(), duplicatedDocs(7, -1))
	require.NoError(t, err)
	assert.EqualValues(t, 7, res.InsertedCount)
}

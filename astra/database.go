// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"

	"github.com/datastax/astra-db-go/astra/options"
	"github.com/datastax/astra-db-go/internal/api"
)

// DefaultKeyspace is the keyspace every database starts with.
const DefaultKeyspace = "default_keyspace"

const apiVersionPath = "api/json/v1"

// Database is a handle to one keyspace of a database.
type Database struct {
	keyspace string
	client   *Client
	basePath string
	conn     commandSender
}

// Keyspace returns the keyspace this handle is bound to.
func (db *Database) Keyspace() string { return db.keyspace }

// Client returns the Client the database was created from.
func (db *Database) Client() *Client { return db.client }

// Collection returns a handle to the named collection.
func (db *Database) Collection(name string) *Collection {
	return &Collection{
		name: name,
		db:   db,
		conn: &connection{api: db.client.api, path: db.basePath + "/" + name},
	}
}

// Table returns a handle to the named table.
func (db *Database) Table(name string) *Table {
	return &Table{
		name: name,
		db:   db,
		conn: &connection{api: db.client.api, path: db.basePath + "/" + name},
	}
}

// CollectionInfo describes one collection as reported by the server.
type CollectionInfo struct {
	Name    string
	Options map[string]any
}

// CreateCollection creates a new collection and returns a handle to it.
// Creating a collection that already exists with the same options is a
// server-side no-op.
func (db *Database) CreateCollection(ctx context.Context, name string,
	opts ...*options.CreateCollectionOptions) (*Collection, error) {
	co := options.MergeCreateCollectionOptions(opts...)

	cmdOpts := map[string]any{}
	if co.Vector != nil {
		cmdOpts["vector"] = co.Vector
	}
	if co.DefaultID != nil {
		cmdOpts["defaultId"] = co.DefaultID
	}
	if co.Indexing != nil {
		cmdOpts["indexing"] = co.Indexing
	}

	cmd := api.NewCommand("createCollection").Set("name", name)
	if len(cmdOpts) != 0 {
		cmd.Set("options", cmdOpts)
	}

	resp, err := db.conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}
	return db.Collection(name), nil
}

// DropCollection deletes the named collection and all of its documents.
func (db *Database) DropCollection(ctx context.Context, name string) error {
	cmd := api.NewCommand("deleteCollection").Set("name", name)
	resp, err := db.conn.SendCommand(ctx, cmd)
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return singleResponseError(cmd, resp)
	}
	return nil
}

// ListCollectionNames returns the names of all collections in the
// keyspace.
func (db *Database) ListCollectionNames(ctx context.Context) ([]string, error) {
	cmd := api.NewCommand("findCollections").SetRetryable()
	resp, err := db.conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}

	var names []string
	for _, v := range statusSlice(resp, "collections") {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// ListCollections returns the collections in the keyspace together with
// the options they were created with.
func (db *Database) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	cmd := api.NewCommand("findCollections").
		Set("options", map[string]any{"explain": true}).
		SetRetryable()
	resp, err := db.conn.SendCommand(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, singleResponseError(cmd, resp)
	}

	var infos []CollectionInfo
	for _, v := range statusSlice(resp, "collections") {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		info := CollectionInfo{}
		info.Name, _ = entry["name"].(string)
		info.Options, _ = entry["options"].(map[string]any)
		infos = append(infos, info)
	}
	return infos, nil
}

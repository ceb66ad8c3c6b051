// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"github.com/datastax/astra-db-go/astra/options"
	"github.com/datastax/astra-db-go/internal/api"
)

// Client is the entry point to a database. Construct one per database
// endpoint; it is safe for concurrent use.
type Client struct {
	endpoint string
	api      *api.Client
}

// NewClient creates a client for the database at endpoint, authenticated
// with the given application token.
func NewClient(endpoint, token string, opts ...*options.ClientOptions) (*Client, error) {
	co := options.MergeClientOptions(opts...)

	cfg := api.Config{
		Endpoint:   endpoint,
		Token:      token,
		HTTPClient: co.HTTPClient,
		Logger:     co.Logger,
	}
	if co.UseHTTP2 != nil {
		cfg.UseHTTP2 = *co.UseHTTP2
	}
	if co.Timeout != nil {
		cfg.Timeout = *co.Timeout
	}
	if co.MaxRetries != nil {
		cfg.MaxRetries = *co.MaxRetries
	}
	if co.RetryDelay != nil {
		cfg.RetryDelay = *co.RetryDelay
	}

	apiClient, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{endpoint: endpoint, api: apiClient}, nil
}

// Database returns a handle to the given keyspace. An empty keyspace
// selects DefaultKeyspace.
func (c *Client) Database(keyspace string) *Database {
	if keyspace == "" {
		keyspace = DefaultKeyspace
	}
	basePath := apiVersionPath + "/" + keyspace
	return &Database{
		keyspace: keyspace,
		client:   c,
		basePath: basePath,
		conn:     &connection{api: c.api, path: basePath},
	}
}

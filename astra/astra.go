// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"

	"github.com/datastax/astra-db-go/internal/api"
)

// commandSender is the narrow contract the cursor and batch engines have
// with the transport: send one command, get back one decoded response or
// one hard error. Implemented by connection for real traffic and by test
// fakes.
type commandSender interface {
	SendCommand(ctx context.Context, cmd *api.Command) (*api.Response, error)
}

// connection binds an api.Client to the resource path of one collection,
// table, or keyspace.
type connection struct {
	api  *api.Client
	path string
}

func (c *connection) SendCommand(ctx context.Context, cmd *api.Command) (*api.Response, error) {
	return c.api.Send(ctx, c.path, cmd)
}

// Status field accessors. The Data API's status section is free-form, so
// numeric fields arrive as json float64s.

func statusInt(resp *api.Response, key string) int64 {
	if resp == nil || resp.Status == nil {
		return 0
	}
	switch v := resp.Status[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func statusBool(resp *api.Response, key string) bool {
	if resp == nil || resp.Status == nil {
		return false
	}
	b, _ := resp.Status[key].(bool)
	return b
}

func statusString(resp *api.Response, key string) (string, bool) {
	if resp == nil || resp.Status == nil {
		return "", false
	}
	s, ok := resp.Status[key].(string)
	return s, ok
}

func statusSlice(resp *api.Response, key string) []any {
	if resp == nil || resp.Status == nil {
		return nil
	}
	s, _ := resp.Status[key].([]any)
	return s
}

func statusValue(resp *api.Response, key string) (any, bool) {
	if resp == nil || resp.Status == nil {
		return nil, false
	}
	v, ok := resp.Status[key]
	return v, ok
}

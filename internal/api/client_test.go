// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Endpoint:   endpoint,
		Token:      "AstraCS:test-token",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestClientSend(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"status": {"insertedIds": ["a"]},
			"errors": [{"message": "dup", "errorCode": "DOCUMENT_ALREADY_EXISTS", "family": "REQUEST"}]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	cmd := NewCommand("insertOne").Set("document", map[string]any{"_id": "a"})

	resp, err := client.Send(context.Background(), "api/json/v1/ks/coll", cmd)
	require.NoError(t, err)

	assert.Equal(t, "/api/json/v1/ks/coll", gotPath)
	assert.Equal(t, "AstraCS:test-token", gotHeader.Get("Token"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &wire))
	require.Contains(t, wire, "insertOne")

	assert.Equal(t, []any{"a"}, resp.Status["insertedIds"])
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "DOCUMENT_ALREADY_EXISTS", resp.Errors[0].ErrorCode)
	assert.Equal(t, "dup", resp.Errors[0].Message)
	assert.Equal(t, "REQUEST", resp.Errors[0].Attributes["family"])
}

func TestClientSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Send(context.Background(), "api/json/v1/ks", NewCommand("findCollections"))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, string(httpErr.Body), "bad token")
}

func TestClientRetriesRetryableCommands(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data": {"documents": []}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	cmd := NewCommand("find").SetRetryable()

	resp, err := client.Send(context.Background(), "api/json/v1/ks/coll", cmd)
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.EqualValues(t, 3, hits.Load())
}

func TestClientDoesNotRetryWrites(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Send(context.Background(), "api/json/v1/ks/coll", NewCommand("insertOne"))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.EqualValues(t, 1, hits.Load(), "non-idempotent commands must not be retried")
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "no such collection", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Send(context.Background(), "api/json/v1/ks/coll", NewCommand("find").SetRetryable())
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := newTestClient(t, srv.URL)
	_, err := client.Send(context.Background(), "api/json/v1/ks/coll", NewCommand("insertOne"))

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": `)) // truncated
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Send(context.Background(), "api/json/v1/ks/coll", NewCommand("findOne"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response body")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Token: "t"})
	assert.Error(t, err)
	_, err = NewClient(Config{Endpoint: "http://localhost"})
	assert.Error(t, err)
}

func TestCommandMarshalShape(t *testing.T) {
	cmd := NewCommand("find").
		Set("filter", map[string]any{"kind": "x"}).
		Set("missing", nil)

	raw, err := json.Marshal(cmd)
	require.NoError(t, err)

	var wire map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	body, ok := wire["find"]
	require.True(t, ok, "command must marshal as a single-key object")
	assert.Equal(t, map[string]any{"kind": "x"}, body["filter"])
	assert.NotContains(t, body, "missing", "nil values stay off the wire")
}

func TestRawErrorRoundTrip(t *testing.T) {
	var rawErr RawError
	require.NoError(t, json.Unmarshal([]byte(
		`{"message": "dup", "errorCode": "X", "family": "REQUEST", "title": "oops"}`), &rawErr))
	assert.Equal(t, "dup", rawErr.Message)
	assert.Equal(t, "X", rawErr.ErrorCode)
	assert.Equal(t, map[string]any{"family": "REQUEST", "title": "oops"}, rawErr.Attributes)

	out, err := json.Marshal(rawErr)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "dup", back["message"])
	assert.Equal(t, "REQUEST", back["family"])
}

func TestConnectionErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &ConnectionError{Err: inner}
	assert.ErrorIs(t, err, inner)
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
	"go.uber.org/multierr"
	"golang.org/x/net/http2"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 250 * time.Millisecond
	userAgent         = "astra-db-go"
)

// Config carries everything needed to construct a Client.
type Config struct {
	// Endpoint is the database API endpoint, e.g.
	// https://<id>-<region>.apps.astra.datastax.com.
	Endpoint string
	// Token is the application token sent in the Token header.
	Token string
	// HTTPClient overrides the default HTTP client when non-nil.
	HTTPClient *http.Client
	// UseHTTP2 selects an HTTP/2 transport for the default client. It is
	// ignored when HTTPClient is set.
	UseHTTP2 bool
	// Timeout applies to each individual request attempt.
	Timeout time.Duration
	// MaxRetries bounds how many times a retryable command is re-sent
	// after a transient failure. Zero disables retries.
	MaxRetries int
	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration
	// Logger receives command logging. Nil discards all output.
	Logger logrus.FieldLogger
}

// Client executes Data API commands over HTTP. It owns authentication
// headers, URL construction, retries of idempotent commands, and command
// logging. Callers see exactly one outcome per logical request: a decoded
// Response or an error.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	log        logrus.FieldLogger
}

// HTTPError is returned when the server replies with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}

// ConnectionError wraps a failure to complete the HTTP exchange at all:
// dial errors, resets, client-side timeouts.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewClient validates cfg and constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("api: endpoint must not be empty")
	}
	if cfg.Token == "" {
		return nil, errors.New("api: token must not be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
		if cfg.UseHTTP2 {
			httpClient.Transport = &http2.Transport{}
		}
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	log := cfg.Logger
	if log == nil {
		nop := logrus.New()
		nop.SetOutput(io.Discard)
		log = nop
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		log:        log,
	}, nil
}

// Send executes cmd against the resource at path (relative to the
// endpoint, e.g. "api/json/v1/default_keyspace/users") and decodes the
// reply. A 2xx reply is returned as a Response even when it carries
// soft errors in its errors array; everything else is an error.
func (c *Client) Send(ctx context.Context, path string, cmd *Command) (*Response, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "api: marshaling command %q", cmd.Name)
	}

	url := c.endpoint + "/" + strings.TrimLeft(path, "/")
	log := c.log.WithFields(logrus.Fields{
		"command": cmd.Name,
		"path":    path,
	})
	log.Trace(string(pretty.Ugly(payload)))

	attempts := 1
	if cmd.Retryable {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			log.WithField("attempt", attempt+1).Debug("retrying command")
		}

		resp, err := c.roundTrip(ctx, url, payload)
		if err == nil {
			log.Debug("command succeeded")
			return resp, nil
		}
		lastErr = err
		if !retryableError(err) {
			break
		}
	}

	log.WithError(lastErr).Debug("command failed")
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, url string, payload []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "api: building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Token", c.token)

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	body, readErr := io.ReadAll(httpResp.Body)
	if err := multierr.Append(readErr, httpResp.Body.Close()); err != nil {
		return nil, errors.Wrap(err, "api: reading response body")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: httpResp.StatusCode, Body: body}
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "api: decoding response body")
	}

	c.log.WithField("duration", time.Since(start)).Trace("round trip complete")
	return &resp, nil
}

// backoff sleeps for a jittered, linearly growing delay, aborting early
// if ctx is done.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt) * c.retryDelay
	delay += time.Duration(rand.Int63n(int64(c.retryDelay)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// retryableError reports whether err is worth another attempt: transient
// server failures and connection errors qualify, client errors and
// decode failures do not.
func retryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientOptions represent all possible options for constructing a Client.
type ClientOptions struct {
	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
	// UseHTTP2 selects an HTTP/2 transport for the default client.
	UseHTTP2 *bool
	// Timeout applies to each request attempt.
	Timeout *time.Duration
	// MaxRetries bounds re-sends of idempotent commands after transient
	// failures. Zero disables retries.
	MaxRetries *int
	// RetryDelay is the base delay between attempts.
	RetryDelay *time.Duration
	// Logger receives command logging. Nil discards all output.
	Logger logrus.FieldLogger
}

// Client creates a new ClientOptions instance.
func Client() *ClientOptions {
	return &ClientOptions{}
}

// SetHTTPClient replaces the default HTTP client.
func (c *ClientOptions) SetHTTPClient(hc *http.Client) *ClientOptions {
	c.HTTPClient = hc
	return c
}

// SetUseHTTP2 selects an HTTP/2 transport for the default client.
func (c *ClientOptions) SetUseHTTP2(b bool) *ClientOptions {
	c.UseHTTP2 = &b
	return c
}

// SetTimeout sets the per-attempt request timeout.
func (c *ClientOptions) SetTimeout(d time.Duration) *ClientOptions {
	c.Timeout = &d
	return c
}

// SetMaxRetries bounds re-sends of idempotent commands.
func (c *ClientOptions) SetMaxRetries(n int) *ClientOptions {
	c.MaxRetries = &n
	return c
}

// SetRetryDelay sets the base delay between attempts.
func (c *ClientOptions) SetRetryDelay(d time.Duration) *ClientOptions {
	c.RetryDelay = &d
	return c
}

// SetLogger sets the logger that receives command logging.
func (c *ClientOptions) SetLogger(log logrus.FieldLogger) *ClientOptions {
	c.Logger = log
	return c
}

// MergeClientOptions combines the given ClientOptions instances into a
// single one, with later values taking precedence.
func MergeClientOptions(opts ...*ClientOptions) *ClientOptions {
	co := Client()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.HTTPClient != nil {
			co.HTTPClient = opt.HTTPClient
		}
		if opt.UseHTTP2 != nil {
			co.UseHTTP2 = opt.UseHTTP2
		}
		if opt.Timeout != nil {
			co.Timeout = opt.Timeout
		}
		if opt.MaxRetries != nil {
			co.MaxRetries = opt.MaxRetries
		}
		if opt.RetryDelay != nil {
			co.RetryDelay = opt.RetryDelay
		}
		if opt.Logger != nil {
			co.Logger = opt.Logger
		}
	}
	return co
}

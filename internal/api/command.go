// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package api

import (
	"encoding/json"
)

// Command is a single Data API command. It marshals as a one-key JSON
// object whose key is the command name and whose value is the command
// body, e.g. {"find": {"filter": {...}}}.
type Command struct {
	Name string
	Body map[string]any

	// Retryable marks the command as safe to re-send after a transient
	// transport failure. Only commands with no server-side side effects
	// (find, findOne, countDocuments, findCollections, ...) set this.
	Retryable bool
}

// NewCommand creates a Command with the given name and an empty body.
func NewCommand(name string) *Command {
	return &Command{Name: name, Body: make(map[string]any)}
}

// Set stores a body field and returns the command for chaining. Nil
// values are dropped so optional fields stay off the wire.
func (c *Command) Set(key string, value any) *Command {
	if value == nil {
		return c
	}
	c.Body[key] = value
	return c
}

// SetRetryable marks the command as idempotent.
func (c *Command) SetRetryable() *Command {
	c.Retryable = true
	return c
}

// MarshalJSON implements json.Marshaler.
func (c *Command) MarshalJSON() ([]byte, error) {
	body := c.Body
	if body == nil {
		body = map[string]any{}
	}
	return json.Marshal(map[string]any{c.Name: body})
}

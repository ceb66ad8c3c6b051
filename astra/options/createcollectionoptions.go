// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

// VectorOptions configures vector search for a new collection.
type VectorOptions struct {
	// Dimension is the length of vectors stored in the collection.
	Dimension int `json:"dimension"`
	// Metric is the similarity metric: "cosine", "euclidean" or
	// "dot_product".
	Metric string `json:"metric,omitempty"`
}

// DefaultIDOptions configures server-generated document identifiers.
type DefaultIDOptions struct {
	// Type names the generated id kind, e.g. "uuid" or "objectId".
	Type string `json:"type"`
}

// CreateCollectionOptions represent all possible options to
// CreateCollection().
type CreateCollectionOptions struct {
	Vector    *VectorOptions    // Enables vector search on the collection.
	DefaultID *DefaultIDOptions // Selects the kind of server-generated ids.
	Indexing  map[string]any    // Allow/deny indexing rules, passed through.
}

// CreateCollection creates a new CreateCollectionOptions instance.
func CreateCollection() *CreateCollectionOptions {
	return &CreateCollectionOptions{}
}

// SetVector enables vector search with the given dimension and metric.
func (c *CreateCollectionOptions) SetVector(dimension int, metric string) *CreateCollectionOptions {
	c.Vector = &VectorOptions{Dimension: dimension, Metric: metric}
	return c
}

// SetDefaultID selects the kind of server-generated ids.
func (c *CreateCollectionOptions) SetDefaultID(idType string) *CreateCollectionOptions {
	c.DefaultID = &DefaultIDOptions{Type: idType}
	return c
}

// SetIndexing sets allow/deny indexing rules, passed through to the
// server untouched.
func (c *CreateCollectionOptions) SetIndexing(indexing map[string]any) *CreateCollectionOptions {
	c.Indexing = indexing
	return c
}

// MergeCreateCollectionOptions combines the given options instances into
// a single one, with later values taking precedence.
func MergeCreateCollectionOptions(opts ...*CreateCollectionOptions) *CreateCollectionOptions {
	co := CreateCollection()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Vector != nil {
			co.Vector = opt.Vector
		}
		if opt.DefaultID != nil {
			co.DefaultID = opt.DefaultID
		}
		if opt.Indexing != nil {
			co.Indexing = opt.Indexing
		}
	}
	return co
}

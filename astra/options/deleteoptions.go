// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

// DeleteOneOptions represent all possible options to DeleteOne().
type DeleteOneOptions struct {
	Sort map[string]any // Specifies the order used to pick the deleted document.
}

// DeleteOne creates a new DeleteOneOptions instance.
func DeleteOne() *DeleteOneOptions {
	return &DeleteOneOptions{}
}

// SetSort specifies the order used to pick the deleted document.
func (d *DeleteOneOptions) SetSort(sort map[string]any) *DeleteOneOptions {
	d.Sort = sort
	return d
}

// MergeDeleteOneOptions combines the given DeleteOneOptions instances
// into a single one, with later values taking precedence.
func MergeDeleteOneOptions(opts ...*DeleteOneOptions) *DeleteOneOptions {
	do := DeleteOne()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Sort != nil {
			do.Sort = opt.Sort
		}
	}
	return do
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

// ReturnDocument specifies whether a findOneAnd* operation returns the
// document as it was before the modification or after.
type ReturnDocument string

const (
	// Before returns the document as it was before the modification.
	Before ReturnDocument = "before"
	// After returns the document as it is after the modification.
	After ReturnDocument = "after"
)

// UpdateOptions represent all possible options to UpdateOne().
type UpdateOptions struct {
	Upsert *bool          // If true, a new document is created when no document matches the filter.
	Sort   map[string]any // Specifies the order used to pick the updated document.
}

// Update creates a new UpdateOptions instance.
func Update() *UpdateOptions {
	return &UpdateOptions{}
}

// SetUpsert sets whether a new document is created when no document
// matches the filter.
func (u *UpdateOptions) SetUpsert(b bool) *UpdateOptions {
	u.Upsert = &b
	return u
}

// SetSort specifies the order used to pick the updated document.
func (u *UpdateOptions) SetSort(sort map[string]any) *UpdateOptions {
	u.Sort = sort
	return u
}

// MergeUpdateOptions combines the given UpdateOptions instances into a
// single one, with later values taking precedence.
func MergeUpdateOptions(opts ...*UpdateOptions) *UpdateOptions {
	uo := Update()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Upsert != nil {
			uo.Upsert = opt.Upsert
		}
		if opt.Sort != nil {
			uo.Sort = opt.Sort
		}
	}
	return uo
}

// UpdateManyOptions represent all possible options to UpdateMany().
type UpdateManyOptions struct {
	Upsert *bool // If true, a new document is created when no document matches the filter.
}

// UpdateMany creates a new UpdateManyOptions instance.
func UpdateMany() *UpdateManyOptions {
	return &UpdateManyOptions{}
}

// SetUpsert sets whether a new document is created when no document
// matches the filter.
func (u *UpdateManyOptions) SetUpsert(b bool) *UpdateManyOptions {
	u.Upsert = &b
	return u
}

// MergeUpdateManyOptions combines the given UpdateManyOptions instances
// into a single one, with later values taking precedence.
func MergeUpdateManyOptions(opts ...*UpdateManyOptions) *UpdateManyOptions {
	uo := UpdateMany()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Upsert != nil {
			uo.Upsert = opt.Upsert
		}
	}
	return uo
}

// ReplaceOptions represent all possible options to ReplaceOne().
type ReplaceOptions struct {
	Upsert *bool          // If true, a new document is created when no document matches the filter.
	Sort   map[string]any // Specifies the order used to pick the replaced document.
}

// Replace creates a new ReplaceOptions instance.
func Replace() *ReplaceOptions {
	return &ReplaceOptions{}
}

// SetUpsert sets whether a new document is created when no document
// matches the filter.
func (r *ReplaceOptions) SetUpsert(b bool) *ReplaceOptions {
	r.Upsert = &b
	return r
}

// SetSort specifies the order used to pick the replaced document.
func (r *ReplaceOptions) SetSort(sort map[string]any) *ReplaceOptions {
	r.Sort = sort
	return r
}

// MergeReplaceOptions combines the given ReplaceOptions instances into a
// single one, with later values taking precedence.
func MergeReplaceOptions(opts ...*ReplaceOptions) *ReplaceOptions {
	ro := Replace()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Upsert != nil {
			ro.Upsert = opt.Upsert
		}
		if opt.Sort != nil {
			ro.Sort = opt.Sort
		}
	}
	return ro
}

// FindOneAndUpdateOptions represent all possible options to
// FindOneAndUpdate().
type FindOneAndUpdateOptions struct {
	ReturnDocument *ReturnDocument
	Sort           map[string]any
	Projection     map[string]any
	Upsert         *bool
}

// FindOneAndUpdate creates a new FindOneAndUpdateOptions instance.
func FindOneAndUpdate() *FindOneAndUpdateOptions {
	return &FindOneAndUpdateOptions{}
}

// SetReturnDocument specifies whether the original or the updated
// document is returned.
func (f *FindOneAndUpdateOptions) SetReturnDocument(rd ReturnDocument) *FindOneAndUpdateOptions {
	f.ReturnDocument = &rd
	return f
}

// SetSort specifies the order used to pick the updated document.
func (f *FindOneAndUpdateOptions) SetSort(sort map[string]any) *FindOneAndUpdateOptions {
	f.Sort = sort
	return f
}

// SetProjection limits the fields returned for the document.
func (f *FindOneAndUpdateOptions) SetProjection(projection map[string]any) *FindOneAndUpdateOptions {
	f.Projection = projection
	return f
}

// SetUpsert sets whether a new document is created when no document
// matches the filter.
func (f *FindOneAndUpdateOptions) SetUpsert(b bool) *FindOneAndUpdateOptions {
	f.Upsert = &b
	return f
}

// MergeFindOneAndUpdateOptions combines the given options instances into
// a single one, with later values taking precedence.
func MergeFindOneAndUpdateOptions(opts ...*FindOneAndUpdateOptions) *FindOneAndUpdateOptions {
	fo := FindOneAndUpdate()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.ReturnDocument != nil {
			fo.ReturnDocument = opt.ReturnDocument
		}
		if opt.Sort != nil {
			fo.Sort = opt.Sort
		}
		if opt.Projection != nil {
			fo.Projection = opt.Projection
		}
		if opt.Upsert != nil {
			fo.Upsert = opt.Upsert
		}
	}
	return fo
}

// FindOneAndReplaceOptions represent all possible options to
// FindOneAndReplace().
type FindOneAndReplaceOptions struct {
	ReturnDocument *ReturnDocument
	Sort           map[string]any
	Projection     map[string]any
	Upsert         *bool
}

// FindOneAndReplace creates a new FindOneAndReplaceOptions instance.
func FindOneAndReplace() *FindOneAndReplaceOptions {
	return &FindOneAndReplaceOptions{}
}

// SetReturnDocument specifies whether the original or the replacement
// document is returned.
func (f *FindOneAndReplaceOptions) SetReturnDocument(rd ReturnDocument) *FindOneAndReplaceOptions {
	f.ReturnDocument = &rd
	return f
}

// SetSort specifies the order used to pick the replaced document.
func (f *FindOneAndReplaceOptions) SetSort(sort map[string]any) *FindOneAndReplaceOptions {
	f.Sort = sort
	return f
}

// SetProjection limits the fields returned for the document.
func (f *FindOneAndReplaceOptions) SetProjection(projection map[string]any) *FindOneAndReplaceOptions {
	f.Projection = projection
	return f
}

// SetUpsert sets whether a new document is created when no document
// matches the filter.
func (f *FindOneAndReplaceOptions) SetUpsert(b bool) *FindOneAndReplaceOptions {
	f.Upsert = &b
	return f
}

// MergeFindOneAndReplaceOptions combines the given options instances into
// a single one, with later values taking precedence.
func MergeFindOneAndReplaceOptions(opts ...*FindOneAndReplaceOptions) *FindOneAndReplaceOptions {
	fo := FindOneAndReplace()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.ReturnDocument != nil {
			fo.ReturnDocument = opt.ReturnDocument
		}
		if opt.Sort != nil {
			fo.Sort = opt.Sort
		}
		if opt.Projection != nil {
			fo.Projection = opt.Projection
		}
		if opt.Upsert != nil {
			fo.Upsert = opt.Upsert
		}
	}
	return fo
}

// FindOneAndDeleteOptions represent all possible options to
// FindOneAndDelete().
type FindOneAndDeleteOptions struct {
	Sort       map[string]any
	Projection map[string]any
}

// FindOneAndDelete creates a new FindOneAndDeleteOptions instance.
func FindOneAndDelete() *FindOneAndDeleteOptions {
	return &FindOneAndDeleteOptions{}
}

// SetSort specifies the order used to pick the deleted document.
func (f *FindOneAndDeleteOptions) SetSort(sort map[string]any) *FindOneAndDeleteOptions {
	f.Sort = sort
	return f
}

// SetProjection limits the fields returned for the document.
func (f *FindOneAndDeleteOptions) SetProjection(projection map[string]any) *FindOneAndDeleteOptions {
	f.Projection = projection
	return f
}

// MergeFindOneAndDeleteOptions combines the given options instances into
// a single one, with later values taking precedence.
func MergeFindOneAndDeleteOptions(opts ...*FindOneAndDeleteOptions) *FindOneAndDeleteOptions {
	fo := FindOneAndDelete()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Sort != nil {
			fo.Sort = opt.Sort
		}
		if opt.Projection != nil {
			fo.Projection = opt.Projection
		}
	}
	return fo
}

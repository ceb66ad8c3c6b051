// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package options

// FindOptions represent all possible options to the Find() function.
type FindOptions struct {
	Sort              map[string]any // Specifies the order in which to return results.
	Projection        map[string]any // Limits the fields returned for all documents.
	Limit             *int           // Sets a limit on the number of results to return. Zero means unbounded.
	Skip              *int           // Specifies the number of documents to skip before returning.
	IncludeSimilarity *bool          // If true, a $similarity field is added to each returned document.
	IncludeSortVector *bool          // If true, the vector used for similarity ordering is captured from the first page.
}

// Find creates a new FindOptions instance.
func Find() *FindOptions {
	return &FindOptions{}
}

// SetSort specifies the order in which to return results.
func (f *FindOptions) SetSort(sort map[string]any) *FindOptions {
	f.Sort = sort
	return f
}

// SetProjection limits the fields returned for all documents.
func (f *FindOptions) SetProjection(projection map[string]any) *FindOptions {
	f.Projection = projection
	return f
}

// SetLimit specifies a limit on the number of results.
func (f *FindOptions) SetLimit(i int) *FindOptions {
	f.Limit = &i
	return f
}

// SetSkip specifies the number of documents to skip before returning.
func (f *FindOptions) SetSkip(i int) *FindOptions {
	f.Skip = &i
	return f
}

// SetIncludeSimilarity sets whether a $similarity field is added to each
// returned document.
func (f *FindOptions) SetIncludeSimilarity(b bool) *FindOptions {
	f.IncludeSimilarity = &b
	return f
}

// SetIncludeSortVector sets whether the similarity sort vector is
// captured from the first page.
func (f *FindOptions) SetIncludeSortVector(b bool) *FindOptions {
	f.IncludeSortVector = &b
	return f
}

// MergeFindOptions combines the given FindOptions instances into a single
// one, with later values taking precedence.
func MergeFindOptions(opts ...*FindOptions) *FindOptions {
	fo := Find()
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
		if opt.Limit != nil {
			fo.Limit = opt.Limit
		}
		if opt.Skip != nil {
			fo.Skip = opt.Skip
		}
		if opt.IncludeSimilarity != nil {
			fo.IncludeSimilarity = opt.IncludeSimilarity
		}
		if opt.IncludeSortVector != nil {
			fo.IncludeSortVector = opt.IncludeSortVector
		}
	}
	return fo
}

// FindOneOptions represent all possible options to the FindOne() function.
type FindOneOptions struct {
	Sort              map[string]any // Specifies the order used to pick the returned document.
	Projection        map[string]any // Limits the fields returned for the document.
	IncludeSimilarity *bool          // If true, a $similarity field is added to the returned document.
}

// FindOne creates a new FindOneOptions instance.
func FindOne() *FindOneOptions {
	return &FindOneOptions{}
}

// SetSort specifies the order used to pick the returned document.
func (f *FindOneOptions) SetSort(sort map[string]any) *FindOneOptions {
	f.Sort = sort
	return f
}

// SetProjection limits the fields returned for the document.
func (f *FindOneOptions) SetProjection(projection map[string]any) *FindOneOptions {
	f.Projection = projection
	return f
}

// SetIncludeSimilarity sets whether a $similarity field is added to the
// returned document.
func (f *FindOneOptions) SetIncludeSimilarity(b bool) *FindOneOptions {
	f.IncludeSimilarity = &b
	return f
}

// MergeFindOneOptions combines the given FindOneOptions instances into a
// single one, with later values taking precedence.
func MergeFindOneOptions(opts ...*FindOneOptions) *FindOneOptions {
	fo := FindOne()
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
		if opt.IncludeSimilarity != nil {
			fo.IncludeSimilarity = opt.IncludeSimilarity
		}
	}
	return fo
}

// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package astra

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/datastax/astra-db-go/internal/api"
)

const (
	defaultChunkSize   = 50
	defaultConcurrency = 8
)

// runChunks drives a logical many-item operation as n sub-requests.
// build produces the command for chunk i; merge folds chunk i's response
// into the caller's accumulator.
//
// Ordered mode issues sub-requests one at a time in input order and stops
// at the first response carrying soft errors; merge still runs for that
// response so the partial result reflects whatever the failing
// sub-request did report. Unordered mode keeps up to concurrency
// sub-requests in flight and attempts every chunk; merge calls are
// serialized, and detailed descriptors are recorded in completion order.
//
// A hard (transport) error propagates unwrapped from either mode, with no
// detailed descriptors, since nothing can be assumed about in-flight
// sub-requests at that point.
func runChunks(
	ctx context.Context,
	conn commandSender,
	n int,
	ordered bool,
	concurrency int,
	build func(i int) *api.Command,
	merge func(i int, resp *api.Response),
) ([]DetailedErrorDescriptor, error) {
	if ordered || concurrency <= 1 || n == 1 {
		return runChunksOrdered(ctx, conn, n, ordered, build, merge)
	}
	return runChunksUnordered(ctx, conn, n, concurrency, build, merge)
}

func runChunksOrdered(
	ctx context.Context,
	conn commandSender,
	n int,
	stopOnError bool,
	build func(i int) *api.Command,
	merge func(i int, resp *api.Response),
) ([]DetailedErrorDescriptor, error) {
	var details []DetailedErrorDescriptor
	for i := 0; i < n; i++ {
		cmd := build(i)
		resp, err := conn.SendCommand(ctx, cmd)
		if err != nil {
			return nil, err
		}
		merge(i, resp)
		if len(resp.Errors) > 0 {
			details = append(details, DetailedErrorDescriptor{
				Command:          cmd,
				RawResponse:      resp,
				ErrorDescriptors: descriptorsFromRaw(resp.Errors),
			})
			if stopOnError {
				break
			}
		}
	}
	return details, nil
}

func runChunksUnordered(
	ctx context.Context,
	conn commandSender,
	n int,
	concurrency int,
	build func(i int) *api.Command,
	merge func(i int, resp *api.Response),
) ([]DetailedErrorDescriptor, error) {
	var (
		mu      sync.Mutex
		details []DetailedErrorDescriptor
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			cmd := build(i)
			resp, err := conn.SendCommand(ctx, cmd)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			merge(i, resp)
			if len(resp.Errors) > 0 {
				details = append(details, DetailedErrorDescriptor{
					Command:          cmd,
					RawResponse:      resp,
					ErrorDescriptors: descriptorsFromRaw(resp.Errors),
				})
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// chunkRange returns the bounds of chunk i when items are split into
// chunks of size size.
func chunkRange(i, size, total int) (int, int) {
	lo := i * size
	hi := lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}

func chunkCount(total, size int) int {
	return (total + size - 1) / size
}

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry decides whether a failed request attempt should be
// retried, and how long to wait before retrying.
//
// A retry Policy is the composition of a Decider (retry or stop) and a
// Waiter (backoff before the next attempt). Both are pure functions of
// the current execution state, so they can be tested without any
// transport.
//
// The default policy retries idempotent methods (GET, HEAD, OPTIONS,
// PUT, DELETE) on network-kind transport failures and on 5XX
// responses, with jittered exponential backoff. Timeouts,
// cancellations, and 4XX responses are never retried, and
// non-idempotent methods (POST, PATCH) are never retried regardless of
// outcome.
package retry

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package failure categorizes transport-level errors encountered while
// making HTTP request attempts.
//
// The category assigned by Categorize drives both the retry policy
// (network-kind failures may be retried on idempotent methods, timeouts
// and cancellations may not) and the terminal error classification
// performed by the classify package.
package failure

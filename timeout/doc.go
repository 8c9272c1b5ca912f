// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout computes the time budget for individual request
// attempts within a plan execution.
//
// A timeout Policy is consulted before every attempt. The value it
// returns is combined with any per-request timeout on the plan: the
// smaller of the two bounds the attempt.
package timeout

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request provides the Plan and Execution types which,
// together, describe a logical HTTP request and track the state of its
// execution by a client.
//
// A Plan is the immutable description of what to send: method, URL,
// headers, query parameters, buffered body, per-attempt timeout, and
// cancellation context. An Execution is the mutable per-dispatch state:
// which attempt is in flight, the most recent response or error, and
// the buffered response body.
package request

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/fenlake/svcx/failure"
	"github.com/fenlake/svcx/request"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, StatusRange, and
// Before, and the built-in deciders Idempotent and NetworkErr; or
// implement your own Decider. Use DeciderFunc to convert an ordinary
// function into a Decider, and to compose deciders logically using
// DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface,
// and also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
//
// Simple DeciderFunc functions can be composed into complex decision
// trees using the logical composition functions DeciderFunc.And and
// DeciderFunc.Or. Because of this composition ability, it will often
// be convenient to work directly with DeciderFunc rather than with
// Decider.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 3

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It allows up to DefaultTimes retries (i.e. up to 4
// total attempts) on idempotent methods only, and only when the
// attempt failed with a network-kind transport error (NetworkErr) or a
// valid HTTP response carrying a 5XX status code. Timeouts,
// cancellations, and 4XX responses are never retried.
var DefaultDecider = Times(DefaultTimes).And(Idempotent).And(StatusRange(500, 600).Or(NetworkErr))

// Idempotent is a decider that indicates a retry only if the plan's
// method is idempotent per request.IdempotentMethod (GET, HEAD,
// OPTIONS, PUT, DELETE). It looks only at the method, so compose it
// with outcome-based deciders to get a usable retry decision.
var Idempotent DeciderFunc = idempotent

// NetworkErr is a decider that indicates a retry if the current error
// is a network-kind transport failure according to failure.Categorize:
// a refused or reset connection, or any other network condition that
// produced an error instead of an HTTP response. Timeouts and
// cancellations are not network-kind and never indicate a retry.
//
// NetworkErr only looks at the error, so it will always return false
// if a valid HTTP response was received. Compose it with other
// deciders, for example a status code decider constructed with
// StatusRange, to get more complex functionality.
var NetworkErr DeciderFunc = networkErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current HTTP request plan execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns
// true if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the execution attempt index
// e.Attempt is less than n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the logical HTTP
// request plan execution. The returned decider returns true while the
// execution duration is less than d, and false afterward.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider allowing retries based on the
// HTTP response status code. If the most recent request attempt within
// the plan execution received a valid HTTP response, and the response
// status code is contained in the list ss, the decider returns true.
// Otherwise, it returns false.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

// StatusRange constructs a retry decider allowing retries when the
// most recent request attempt received a valid HTTP response with a
// status code in the half-open interval [lo, hi). A missing response
// (status code zero) never matches.
func StatusRange(lo, hi int) DeciderFunc {
	if lo < 1 {
		panic("svcx/retry: lo must be positive")
	}
	if hi <= lo {
		panic("svcx/retry: hi must be greater than lo")
	}
	return func(e *request.Execution) bool {
		s := e.StatusCode()
		return lo <= s && s < hi
	}
}

func idempotent(e *request.Execution) bool {
	if e.Plan == nil {
		return false
	}
	return request.IdempotentMethod(e.Plan.Method)
}

func networkErr(e *request.Execution) bool {
	return failure.Categorize(e.Err).Network()
}

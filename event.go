// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package svcx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// plan execution starts.
	//
	// When Client fires BeforeExecutionStart, the execution is non-nil
	// and carries only its plan and its execution ID.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual HTTP request attempt during the plan execution.
	//
	// When Client fires BeforeAttempt, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeAttempt
	// handlers have finished.
	//
	// BeforeAttempt handlers may modify the execution's request, thus
	// changing the HTTP request that will be sent. Handlers should
	// clone request fields with reference types (URL and Header) before
	// changing them, as these fields may share storage with the plan.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after an HTTP
	// request attempt has resulted in an HTTP response (as opposed to
	// an error) but before the response body is read and buffered.
	//
	// BeforeReadBody never fires if the request attempt ended in error,
	// but always fires when a response is received, regardless of the
	// response status code and regardless of whether the response has a
	// non-empty body.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after an
	// HTTP request attempt failed because of a timeout error.
	//
	// When Client fires AfterAttemptTimeout, the execution's error
	// field is set to the timeout error, and its attempt timeout
	// counter has been incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after an HTTP
	// request attempt is concluded, successfully or not.
	//
	// AfterAttempt fires on every request attempt and runs before the
	// retry policy is consulted for a retry decision. At least one of
	// the execution's response and error fields is non-nil when it
	// fires; both are non-nil only if an error occurred while reading
	// the response body.
	AfterAttempt
	// AfterPlanTimeout identifies the event that occurs after a timeout
	// at the request plan level, not just the request attempt level
	// (the deadline on the plan's own context is exceeded). A plan
	// timeout can be detected either at the same time as an attempt
	// timeout, or during the retry wait period.
	//
	// AfterPlanTimeout always occurs after AfterAttempt, even when the
	// plan timeout was detected at the same time as an attempt timeout.
	AfterPlanTimeout
	// AfterExecutionEnd identifies the event that occurs after the plan
	// execution ends.
	//
	// When Client fires AfterExecutionEnd, the execution is in its
	// terminal state: the end time is set and, if the execution failed,
	// the error field holds the classified error that the executing
	// method will return.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events typed as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in an
// HTTP request plan execution by Client, in the order in which they
// would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		AfterPlanTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}

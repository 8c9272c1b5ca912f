// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"context"
	"errors"
	"syscall"
)

// A Kind is the failure kind of a transport error, as reported by
// function Categorize.
//
// The kind None means the error is nil, i.e. the request attempt did
// not fail at the transport level. Every non-nil error categorizes to
// one of the remaining kinds.
type Kind int

const (
	// None indicates the absence of a transport failure.
	None Kind = iota
	// Timeout indicates a client-side timeout on the request attempt.
	//
	// Function Categorize returns Timeout if the error, or any of its
	// wrapped causes, has a Timeout() function that reports true, or
	// is context.DeadlineExceeded.
	Timeout
	// Canceled indicates the request attempt was abandoned because the
	// caller's cancellation context fired.
	//
	// Function Categorize returns Canceled if the error, or any of its
	// wrapped causes, is context.Canceled. Cancellation is checked
	// before every other kind so that a cancelled attempt is never
	// mistaken for a slow or broken network.
	Canceled
	// ConnRefused indicates the remote host refused the connection and
	// corresponds to the POSIX error code ECONNREFUSED.
	//
	// Connection refusal often happens while the service on the remote
	// host is starting or restarting, so it is treated as a
	// network-kind failure with a reasonable prospect of success on
	// retry.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// TCP connection and corresponds to the POSIX error code
	// ECONNRESET.
	//
	// Resets are common when a service instance is torn down while
	// responding, or when a load balancer recycles backends, so a
	// retry has a high probability of success.
	ConnReset
	// Other indicates any other transport failure. A request attempt
	// that produced an error rather than an HTTP response always
	// failed somewhere in the network path, so errors that are not
	// timeouts, cancellations, refusals, or resets still count as
	// network-kind failures.
	Other
)

var kindNames = []string{
	"None",
	"Timeout",
	"Canceled",
	"ConnRefused",
	"ConnReset",
	"Other",
}

// String returns the name of the failure kind.
func (k Kind) String() string {
	if k < None || k > Other {
		return "Unknown"
	}
	return kindNames[int(k)]
}

// Network indicates whether the kind is a network-kind failure, i.e.
// one where the connection itself broke rather than the attempt being
// abandoned by the client. ConnRefused, ConnReset, and Other are
// network-kind; Timeout and Canceled are not.
func (k Kind) Network() bool {
	return k == ConnRefused || k == ConnReset || k == Other
}

// Categorize returns the failure kind of the given error. A nil error
// produces None; every non-nil error produces one of the other kinds.
//
// In assessing the kind, Categorize looks at wrapped cause errors
// contained within err, not just err itself. Cancellation is checked
// first, then timeout, then the connection errno codes. Categorize
// never consults a Temporary() function, as the semantics of
// Temporary() aren't entirely clear.
func Categorize(err error) Kind {
	if err == nil {
		return None
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Other
}

type hasTimeout interface {
	Timeout() bool
}

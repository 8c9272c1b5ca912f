// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fault defines the typed errors a client dispatch can surface,
// plus the Factory indirection used to resolve first-party service
// errors by name.
//
// Every error in the taxonomy is message-only: it carries a
// human-readable message and nothing else. No error wraps the original
// transport or response failure as a structured cause; callers that
// need the raw outcome get it through the opaque StatusError
// passthrough.
package fault

import (
	"fmt"
)

// A Factory constructs a typed error from a message. Error resolution
// configuration maps first-party error envelope names to factories, so
// the classifier never depends on concrete error types.
//
// The built-in constructors NewNetwork, NewTimeout, NewUnauthenticated,
// NewEndpointNotFound, NewIllegalArgument, and NewService all satisfy
// Factory.
type Factory func(message string) error

// A NetworkError reports a connection-level failure, or a cancelled
// request attempt.
type NetworkError struct {
	Message string
}

func (e *NetworkError) Error() string {
	return e.Message
}

// NewNetwork constructs a NetworkError. It satisfies Factory.
func NewNetwork(message string) error {
	return &NetworkError{Message: message}
}

// A TimeoutError reports a request attempt that was abandoned because
// it exceeded its time budget. The message is the transport's own
// failure text, verbatim.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

// Timeout returns true. It lets callers that probe for the net.Error
// timeout convention recognize the error after classification.
func (e *TimeoutError) Timeout() bool {
	return true
}

// NewTimeout constructs a TimeoutError. It satisfies Factory.
func NewTimeout(message string) error {
	return &TimeoutError{Message: message}
}

// An UnauthenticatedError reports a response with status 403.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string {
	return e.Message
}

// NewUnauthenticated constructs an UnauthenticatedError. It satisfies
// Factory.
func NewUnauthenticated(message string) error {
	return &UnauthenticatedError{Message: message}
}

// An EndpointNotFoundError reports a response with status 404.
type EndpointNotFoundError struct {
	Message string
}

func (e *EndpointNotFoundError) Error() string {
	return e.Message
}

// NewEndpointNotFound constructs an EndpointNotFoundError. It satisfies
// Factory.
func NewEndpointNotFound(message string) error {
	return &EndpointNotFoundError{Message: message}
}

// An IllegalArgumentError reports caller misuse, for example an
// unsupported request method. It is surfaced before any request
// attempt is made and is never retried.
type IllegalArgumentError struct {
	Message string
}

func (e *IllegalArgumentError) Error() string {
	return e.Message
}

// NewIllegalArgument constructs an IllegalArgumentError. It satisfies
// Factory.
func NewIllegalArgument(message string) error {
	return &IllegalArgumentError{Message: message}
}

// A ServiceError reports a first-party error envelope whose name did
// not resolve to a more specific constructor.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewService constructs a ServiceError. It satisfies Factory.
func NewService(message string) error {
	return &ServiceError{Message: message}
}

// A StatusError is the opaque passthrough for an application error
// that matched no classification rule: the caller sees the raw status
// code and response body of the final attempt, unchanged.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service returned status %d: %s", e.Status, e.Body)
}

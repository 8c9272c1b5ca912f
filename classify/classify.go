// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package classify converts the terminal outcome of a request plan
// execution into exactly one typed error from the fault package, or
// passes a successful outcome through untouched.
//
// Classification order is load-bearing. Transport-level failures
// (timeout, cancellation, network) are classified first and can never
// be overridden by caller configuration. Application errors (a
// response was received, but its status indicates failure) then go
// through, in order: the configured custom handler, the first-party
// error envelope, the built-in 403/404 rules, and finally the opaque
// status passthrough.
package classify

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/fenlake/svcx/failure"
	"github.com/fenlake/svcx/fault"
	"github.com/fenlake/svcx/request"
)

// A Handler is a caller-supplied function consulted for every
// application error before any built-in classification. It receives
// the response status code and the raw response body, and must return
// a non-nil error.
//
// A Handler that returns nil violates its contract: the execution then
// surfaces no error despite having failed, and the behavior of
// downstream code is undefined. The classifier deliberately does not
// fall back to built-in classification in that case.
type Handler func(status int, body []byte) error

// A Resolver maps first-party error envelope names to error factories.
//
// When an application error body carries the first-party envelope
// shape, the envelope name is looked up in Names. On a hit, the
// matching factory is invoked with the envelope message. On a miss,
// Fallback (if non-nil) is invoked with "name: message". With no
// Fallback either, the classifier produces a plain fault.ServiceError
// with "name: message".
type Resolver struct {
	Names    map[string]fault.Factory
	Fallback fault.Factory
}

// A Classifier holds the error-resolution configuration for a client
// and performs terminal outcome classification. Its zero value
// classifies with no custom handler, no resolver, and no logging.
//
// The Handler and Resolver fields are read, never written, by
// Classify, so a Classifier may be shared by concurrent executions as
// long as it is not reconfigured while requests are in flight.
type Classifier struct {
	// Handler, if non-nil, is consulted for every application error,
	// taking precedence over the envelope, 403/404, and passthrough
	// rules. It never sees transport-level failures.
	Handler Handler

	// Resolver, if non-nil, resolves first-party error envelopes by
	// name.
	Resolver *Resolver

	// Logger receives a warning-level entry for each classified
	// failure. If nil, nothing is logged. Logging never alters the
	// chosen error or its message.
	Logger *zerolog.Logger
}

var nop = zerolog.Nop()

// Classify inspects the terminal state of a request plan execution and
// returns the one typed error that describes it, or nil if the
// execution ended in success.
//
// For transport failures the error is derived from the failure kind:
// timeouts become fault.TimeoutError carrying the transport's message
// verbatim, cancellations become fault.NetworkError with the message
// "canceled", and all other kinds become fault.NetworkError carrying
// the transport's message. For application errors the configured
// Handler and Resolver are consulted as described on their types;
// unmatched outcomes surface as *fault.StatusError carrying the raw
// status and body of the final attempt.
func (c *Classifier) Classify(e *request.Execution) error {
	if e.Err != nil {
		return c.classifyTransport(e)
	}
	status := e.StatusCode()
	if status < 400 {
		return nil
	}
	return c.classifyApplication(e, status)
}

func (c *Classifier) classifyTransport(e *request.Execution) error {
	kind := failure.Categorize(e.Err)
	switch kind {
	case failure.Timeout:
		c.warn(e).
			Str("kind", kind.String()).
			Str("error", e.Err.Error()).
			Msg("request attempt timed out")
		return fault.NewTimeout(e.Err.Error())
	case failure.Canceled:
		return fault.NewNetwork("canceled")
	default:
		c.warn(e).
			Str("kind", kind.String()).
			Str("error", e.Err.Error()).
			Msg("request attempt failed with network error")
		return fault.NewNetwork(e.Err.Error())
	}
}

func (c *Classifier) classifyApplication(e *request.Execution, status int) error {
	if c.Handler != nil {
		return c.Handler(status, e.Body)
	}

	if name, message, ok := envelope(e.Body); ok {
		c.warn(e).
			Int("status", status).
			Str("name", name).
			Str("message", message).
			Msg("service reported error")
		if c.Resolver != nil {
			if factory, ok := c.Resolver.Names[name]; ok {
				return factory(message)
			}
			if c.Resolver.Fallback != nil {
				return c.Resolver.Fallback(name + ": " + message)
			}
		}
		return fault.NewService(name + ": " + message)
	}

	switch status {
	case 403:
		c.warn(e).
			Int("status", status).
			Msg("request not authenticated")
		return fault.NewUnauthenticated(messageField(e.Body))
	case 404:
		c.warn(e).
			Int("status", status).
			Msg("endpoint not found")
		return fault.NewEndpointNotFound(messageField(e.Body))
	}

	return &fault.StatusError{Status: status, Body: e.Body}
}

func (c *Classifier) warn(e *request.Execution) *zerolog.Event {
	logger := c.Logger
	if logger == nil {
		logger = &nop
	}
	return logger.Warn().Str("exec_id", e.ID)
}

// envelope reports whether body carries the first-party error envelope
// shape: a JSON object with string name and message fields. Any other
// shape, including non-JSON bodies, is not an envelope.
func envelope(body []byte) (name, message string, ok bool) {
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return "", "", false
	}
	name, nameOK := m["name"].(string)
	message, messageOK := m["message"].(string)
	if !nameOK || !messageOK {
		return "", "", false
	}
	return name, message, true
}

// messageField extracts the message field from a JSON object body,
// returning the empty string if the body is not a JSON object or the
// field is not a string.
func messageField(body []byte) string {
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	message, _ := m["message"].(string)
	return message
}

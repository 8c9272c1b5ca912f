// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package svcx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fenlake/svcx/classify"
	"github.com/fenlake/svcx/fault"
	"github.com/fenlake/svcx/request"
	"github.com/fenlake/svcx/retry"
	"github.com/fenlake/svcx/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the Go
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var (
	emptyHandlers = HandlerGroup{}
	nopLogger     = zerolog.Nop()
)

// A Client is a service-client facade over an opaque HTTP transport.
// Its zero value is a valid configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, timeout.DefaultPolicy as the timeout policy,
// retry.DefaultPolicy as the retry policy, no base URL, no event
// handlers, no custom error resolution, and no logging.
//
// Client's HTTPDoer typically has internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines,
// with one caveat: ConfigureErrorHandler and ConfigureResolver are not
// synchronized with the send path, so error resolution must be
// configured before the client is shared.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and receiving
// the response, while Client builds on top of the HTTPDoer's feature
// set:
//
// • Client reads and buffers the entire HTTP response body into a
// []byte (returned as the Execution.Body field);
//
// • Client retries transient failures of idempotent requests using a
// customizable retry policy;
//
// • Client sets individual request attempt timeouts using a
// customizable timeout policy;
//
// • Client classifies every terminal failure, transport or
// application, into one stable typed error from the fault package;
//
// • Client invokes user-provided handler functions at designated
// plug-in points within the attempt/retry loop; and
//
// • Client implements the svcx.Executor interface.
//
// Client's HTTP methods follow the rough parameter schema of the Go
// standard client, with two differences: Client.Do consumes a
// request.Plan, which is suitable for making multiple attempts if
// necessary, and all of Client's HTTP methods return a
// request.Execution with a fully-buffered response body instead of an
// http.Response.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// BaseURL, if non-nil, is the URL relative plan URLs are resolved
	// against at attempt time. Plans with absolute URLs are sent as-is.
	BaseURL *url.URL
	// RetryPolicy decides when to retry failed attempts and how long
	// to sleep after a failed attempt before retrying.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy specifies how to set timeouts on individual request
	// attempts. When both the policy and the plan's own Timeout field
	// produce a value, the smaller of the two bounds the attempt.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request plan.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives debug entries on the dispatch path and warning
	// entries from failure classification. If nil, nothing is logged.
	// Logging never affects control flow or the returned error.
	Logger *zerolog.Logger

	errHandler classify.Handler
	resolver   *classify.Resolver
}

// ConfigureErrorHandler installs h as the client's custom application
// error handler, replacing any previously configured handler. The
// handler is consulted for every application error before any built-in
// classification; see classify.Handler for its contract. Passing nil
// removes the handler.
//
// ConfigureErrorHandler is not synchronized with Do. Configure error
// resolution before the client is shared between goroutines.
func (c *Client) ConfigureErrorHandler(h classify.Handler) {
	c.errHandler = h
}

// ConfigureResolver installs r as the client's error envelope resolver,
// replacing any previously configured resolver. The resolver is
// independent of the error handler installed by ConfigureErrorHandler;
// configuring one never disturbs the other. Passing nil removes the
// resolver.
//
// ConfigureResolver is not synchronized with Do. Configure error
// resolution before the client is shared between goroutines.
func (c *Client) ConfigureResolver(r *classify.Resolver) {
	c.resolver = r
}

// Do executes an HTTP request plan and returns the results, following
// the timeout and retry policy set on Client and low-level policy set
// on the underlying HTTPDoer.
//
// The result returned is the result after the final HTTP request
// attempt made during the plan execution, as determined by the retry
// policy.
//
// A nil error means the final attempt received a response with a
// status code below 400. The returned Execution then contains a
// non-nil Response and a non-nil (possibly empty) Body.
//
// A non-nil error is always one of the typed errors from the fault
// package, describing the terminal outcome of the execution:
//
// • a plan whose method is not one of GET, POST, PUT, PATCH, or DELETE
// fails with *fault.IllegalArgumentError before any attempt is made;
//
// • an attempt timeout surfaces as *fault.TimeoutError;
//
// • cancellation and transport-level failures surface as
// *fault.NetworkError;
//
// • a response with status 400 or above surfaces through the client's
// configured error resolution, falling back to *fault.StatusError.
//
// The Err field of the returned Execution always references the same
// error.
//
// For simple use cases, the Get, Post, Put, Patch, and Delete methods
// may prove easier to use than Do.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := request.Execution{
		Plan: p,
		ID:   uuid.NewString(),
	}

	if !request.SupportedMethod(p.Method) {
		e.Err = fault.NewIllegalArgument(fmt.Sprintf("unsupported method %q", p.Method))
		return &e, e.Err
	}

	doer := c.doer()
	logger := c.logger()

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

	if err := p.Context().Err(); err != nil {
		// The plan arrived already cancelled or expired. Terminal, no
		// attempt is made.
		e.Err = urlErrorWrap(p, err)
	} else {
	RetryLoop:
		for {
			c.sendAndReceive(p, &e, doer, handlers, timeoutPolicy, logger)
			if e.Timeout() {
				e.AttemptTimeouts++
				handlers.run(AfterAttemptTimeout, &e)
			}
			handlers.run(AfterAttempt, &e)
			planCtxErr := p.Context().Err()
			if planCtxErr == context.DeadlineExceeded {
				e.Err = urlErrorWrap(p, planCtxErr)
				handlers.run(AfterPlanTimeout, &e)
				break
			} else if planCtxErr != nil {
				e.Err = urlErrorWrap(p, planCtxErr)
				break
			} else if retryPolicy.Decide(&e) {
				wait := retryPolicy.Wait(&e)
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
					break
				case <-p.Context().Done():
					timer.Stop()
					err := p.Context().Err()
					e.Err = urlErrorWrap(p, err)
					if err == context.DeadlineExceeded {
						handlers.run(AfterPlanTimeout, &e)
					}
					break RetryLoop
				}
				e.Response = nil
				e.Err = nil
				e.Body = nil
				e.Attempt++
			} else {
				break
			}
		}
	}

	classifier := classify.Classifier{
		Handler:  c.errHandler,
		Resolver: c.resolver,
		Logger:   c.Logger,
	}
	e.Err = classifier.Classify(&e)
	if e.Err != nil {
		logger.Debug().
			Str("exec_id", e.ID).
			Str("method", p.Method).
			Str("url", p.URL.String()).
			Int("attempts", e.Attempt+1).
			Err(e.Err).
			Msg("request failed")
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func (c *Client) sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, timeoutPolicy timeout.Policy, logger *zerolog.Logger) {
	d := timeoutPolicy.Timeout(e)
	if p.Timeout > 0 && p.Timeout < d {
		d = p.Timeout
	}
	ctx, cancel := context.WithTimeout(p.Context(), d)
	defer cancel()
	e.Request = p.ToRequest(ctx, c.BaseURL)
	logger.Debug().
		Str("exec_id", e.ID).
		Str("method", e.Request.Method).
		Str("url", e.Request.URL.String()).
		Str("query", p.QueryString()).
		Int("attempt", e.Attempt).
		Msg("sending request attempt")
	handlers.run(BeforeAttempt, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	} else {
		readBody(p, e, handlers)
	}
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	}
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do. POST requests are never retried.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, request.BodyBytes, and svcx.Post,
// namely: string; []byte; io.Reader; and io.ReadCloser.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewPlan and Client.Do.
func (c *Client) PostForm(url string, data url.Values) (*request.Execution, error) {
	return PostForm(c, url, data)
}

// Put issues a PUT to the specified URL, using the same policies
// followed by Do.
//
// The body parameter accepts the same types as Post.
func (c *Client) Put(url, contentType string, body interface{}) (*request.Execution, error) {
	return Put(c, url, contentType, body)
}

// Patch issues a PATCH to the specified URL, using the same policies
// followed by Do. PATCH requests are never retried.
//
// The body parameter accepts the same types as Post.
func (c *Client) Patch(url, contentType string, body interface{}) (*request.Execution, error) {
	return Patch(c, url, contentType, body)
}

// Delete issues a DELETE to the specified URL, using the same policies
// followed by Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Delete(url string) (*request.Execution, error) {
	return Delete(c, url)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &nopLogger
	}

	return c.Logger
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}

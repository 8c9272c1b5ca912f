// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "svcx/request: nil context"
)

// A Plan contains a logical HTTP request plan for execution by a
// client.
//
// The logical request described by a Plan will typically result in a
// single lower-level http.Request (net/http) attempt being made, but
// may result in multiple request attempts, for example if a failed
// attempt needs to be retried.
//
// A Plan should be treated as immutable once constructed. The dispatch
// path only reads from the plan: reference-typed fields such as Query
// are copied before use, so the caller's original values are never
// mutated by executing the plan.
//
// Like the http.Request structure, a Plan has a context which controls
// the overall plan execution and can be used to cancel the in-flight
// execution of a Plan at any time.
type Plan struct {
	// Method specifies the HTTP method. An empty string means GET.
	//
	// The supported methods are GET, POST, PUT, PATCH, and DELETE.
	// Executing a plan with any other method fails immediately with an
	// illegal argument fault, before any request attempt is made.
	Method string

	// URL specifies the URL to access. It may be relative, in which
	// case the executing client resolves it against the client's base
	// URL at attempt time.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent by the
	// client.
	//
	// For further details, see the documentation of Request.Header in
	// the net/http package.
	Header http.Header

	// Query contains query parameters to be merged into the URL's
	// query string on each request attempt. The merge works on a copy,
	// so Query itself is never modified by executing the plan.
	Query urlpkg.Values

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent, for example
	// on a GET or DELETE request.
	Body []byte

	// Timeout optionally bounds each individual request attempt. When
	// both Timeout and the executing client's timeout policy are set,
	// the smaller of the two values applies.
	Timeout time.Duration

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host will be sent. Host may contain an international
	// domain name.
	Host string

	// ctx allows the entire plan execution to be cancelled. It should
	// only be modified by copying the whole Plan using WithContext.
	ctx context.Context
}

// SupportedMethod reports whether method is one of the five methods a
// plan execution accepts. The empty string is supported because it is
// interpreted as GET.
func SupportedMethod(method string) bool {
	switch method {
	case "", "GET", "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}

// IdempotentMethod reports whether method is safe to retry without
// changing the server-side effect beyond the first success. The
// idempotent methods are GET, HEAD, OPTIONS, PUT, and DELETE.
func IdempotentMethod(method string) bool {
	switch method {
	case "", "GET", "HEAD", "OPTIONS", "PUT", "DELETE":
		return true
	default:
		return false
	}
}

// NewPlan wraps NewPlanWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional body.
//
// The method must be one of the five supported methods (GET, POST,
// PUT, PATCH, DELETE) or the empty string, which is interpreted as
// GET.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !SupportedMethod(method) {
		return nil, fmt.Errorf("svcx/request: unsupported method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

// Context returns the request plan's context. The context controls
// cancellation of the overall request plan. To change the context, use
// WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
//
// The context controls the entire lifetime of a logical request plan
// and its execution, including: making individual request attempts
// (obtaining a connection, sending the request, reading the response
// headers and body) and waiting for a retry wait period to expire.
//
// To create a new request plan with a context, use NewPlanWithContext.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// SetBasicAuth sets the request plan's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
//
// Some protocols may impose additional requirements on pre-escaping the
// username and password. For instance, when used with OAuth2, both arguments
// must be URL encoded first with url.QueryEscape.
func (p *Plan) SetBasicAuth(username, password string) {
	p.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// QueryString returns the serialized query string the next request
// attempt will carry: the query already present on the URL merged with
// the plan's Query values. Neither the URL nor Query is modified.
func (p *Plan) QueryString() string {
	q := p.URL.Query()
	for k, vs := range p.Query {
		q[k] = append(q[k], vs...)
	}
	return q.Encode()
}

// ToRequest creates an HTTP request corresponding to the given request
// plan. The context of the new request is set to ctx, which may not be
// nil.
//
// If base is non-nil and the plan URL is relative, the request URL is
// the plan URL resolved against base. Plan query parameters are merged
// into a copy of the URL, so the plan itself is left untouched.
func (p *Plan) ToRequest(ctx context.Context, base *urlpkg.URL) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	if r.Method == "" {
		r.Method = "GET"
	}
	u := p.resolveURL(base)
	if len(p.Query) > 0 {
		q := u.Query()
		for k, vs := range p.Query {
			q[k] = append(q[k], vs...)
		}
		u.RawQuery = q.Encode()
	}
	r.URL = u
	r.Header = p.Header
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	r.Host = p.Host
	return r
}

func (p *Plan) resolveURL(base *urlpkg.URL) *urlpkg.URL {
	if base != nil && !p.URL.IsAbs() {
		return base.ResolveReference(p.URL)
	}
	u := *p.URL
	return &u
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}

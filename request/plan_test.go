// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	t.Run("Defaults empty method to GET", func(t *testing.T) {
		p, err := NewPlan("", "http://example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, "GET", p.Method)
	})
	t.Run("Supported methods", func(t *testing.T) {
		for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
			p, err := NewPlan(method, "http://example.com/widgets", nil)
			require.NoError(t, err, method)
			assert.Equal(t, method, p.Method)
		}
	})
	t.Run("Unsupported methods", func(t *testing.T) {
		for _, method := range []string{"HEAD", "OPTIONS", "TRACE", "CONNECT", "FROBNICATE", "get"} {
			p, err := NewPlan(method, "http://example.com", nil)
			assert.Nil(t, p, method)
			assert.EqualError(t, err, `svcx/request: unsupported method "`+method+`"`)
		}
	})
	t.Run("Nil context", func(t *testing.T) {
		p, err := NewPlanWithContext(nil, "GET", "http://example.com", nil)
		assert.Nil(t, p)
		assert.EqualError(t, err, "svcx/request: nil context")
	})
	t.Run("Bad URL", func(t *testing.T) {
		p, err := NewPlan("GET", "::not a url::", nil)
		assert.Nil(t, p)
		assert.Error(t, err)
	})
	t.Run("Empty port removed", func(t *testing.T) {
		p, err := NewPlan("GET", "http://example.com:/x", nil)
		require.NoError(t, err)
		assert.Equal(t, "example.com", p.URL.Host)
	})
	t.Run("Body variants", func(t *testing.T) {
		p, err := NewPlan("POST", "http://example.com", "hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), p.Body)
		p, err = NewPlan("POST", "http://example.com", strings.NewReader("world"))
		require.NoError(t, err)
		assert.Equal(t, []byte("world"), p.Body)
		p, err = NewPlan("POST", "http://example.com", 42)
		assert.Nil(t, p)
		assert.Error(t, err)
	})
}

func TestSupportedMethod(t *testing.T) {
	for _, method := range []string{"", "GET", "POST", "PUT", "PATCH", "DELETE"} {
		assert.True(t, SupportedMethod(method), method)
	}
	for _, method := range []string{"HEAD", "OPTIONS", "TRACE", "CONNECT", "post"} {
		assert.False(t, SupportedMethod(method), method)
	}
}

func TestIdempotentMethod(t *testing.T) {
	for _, method := range []string{"", "GET", "HEAD", "OPTIONS", "PUT", "DELETE"} {
		assert.True(t, IdempotentMethod(method), method)
	}
	for _, method := range []string{"POST", "PATCH"} {
		assert.False(t, IdempotentMethod(method), method)
	}
}

func TestContext(t *testing.T) {
	p := &Plan{}
	assert.Same(t, context.Background(), p.Context())

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	p2 := p.WithContext(ctx)
	assert.NotSame(t, p, p2)
	assert.Same(t, ctx, p2.Context())
	assert.Same(t, context.Background(), p.Context())

	assert.PanicsWithValue(t, "svcx/request: nil context", func() {
		p.WithContext(nil)
	})
}

func TestSetBasicAuth(t *testing.T) {
	p, err := NewPlan("GET", "http://example.com", nil)
	require.NoError(t, err)
	p.SetBasicAuth("user", "pass")
	assert.Equal(t, "Basic dXNlcjpwYXNz", p.Header.Get("Authorization"))
}

func TestToRequest(t *testing.T) {
	t.Run("Query merged on a copy", func(t *testing.T) {
		p, err := NewPlan("GET", "http://example.com/search?page=1", nil)
		require.NoError(t, err)
		caller := url.Values{"q": {"widgets"}, "sort": {"asc", "desc"}}
		p.Query = caller

		r := p.ToRequest(context.Background(), nil)
		got := r.URL.Query()
		assert.Equal(t, "1", got.Get("page"))
		assert.Equal(t, "widgets", got.Get("q"))
		assert.Equal(t, []string{"asc", "desc"}, got["sort"])

		// The caller's mapping and the plan URL are untouched.
		assert.Equal(t, url.Values{"q": {"widgets"}, "sort": {"asc", "desc"}}, caller)
		assert.Equal(t, "page=1", p.URL.RawQuery)
	})
	t.Run("Relative URL resolved against base", func(t *testing.T) {
		p, err := NewPlan("GET", "/v1/widgets", nil)
		require.NoError(t, err)
		base, _ := url.Parse("https://api.example.com")
		r := p.ToRequest(context.Background(), base)
		assert.Equal(t, "https://api.example.com/v1/widgets", r.URL.String())
		assert.Equal(t, "/v1/widgets", p.URL.String())
	})
	t.Run("Absolute URL ignores base", func(t *testing.T) {
		p, err := NewPlan("GET", "http://other.example.com/x", nil)
		require.NoError(t, err)
		base, _ := url.Parse("https://api.example.com")
		r := p.ToRequest(context.Background(), base)
		assert.Equal(t, "http://other.example.com/x", r.URL.String())
	})
	t.Run("Body and length", func(t *testing.T) {
		p, err := NewPlan("POST", "http://example.com", "payload")
		require.NoError(t, err)
		r := p.ToRequest(context.Background(), nil)
		assert.EqualValues(t, 7, r.ContentLength)
		require.NotNil(t, r.GetBody)
		rc, err := r.GetBody()
		require.NoError(t, err)
		b := make([]byte, 7)
		_, _ = rc.Read(b)
		assert.Equal(t, "payload", string(b))
	})
	t.Run("Context propagated", func(t *testing.T) {
		p, err := NewPlan("GET", "http://example.com", nil)
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		r := p.ToRequest(ctx, nil)
		assert.Same(t, ctx, r.Context())
	})
}

func TestQueryString(t *testing.T) {
	p, err := NewPlan("GET", "http://example.com/search?page=1", nil)
	require.NoError(t, err)
	p.Query = url.Values{"q": {"widgets"}}
	assert.Equal(t, "page=1&q=widgets", p.QueryString())
	assert.Equal(t, "page=1", p.URL.RawQuery)
}

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeAndHeader(t *testing.T) {
	e := &Execution{}
	assert.Equal(t, 0, e.StatusCode())
	assert.Nil(t, e.Header())

	e.Response = &http.Response{
		StatusCode: 503,
		Header:     http.Header{"Retry-After": {"120"}},
	}
	assert.Equal(t, 503, e.StatusCode())
	assert.Equal(t, "120", e.Header().Get("Retry-After"))
}

func TestJSON(t *testing.T) {
	e := &Execution{Body: []byte(`{"name":"SystemError","message":"mockErrorMessage"}`)}
	var v struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	require.NoError(t, e.JSON(&v))
	assert.Equal(t, "SystemError", v.Name)
	assert.Equal(t, "mockErrorMessage", v.Message)

	e.Body = []byte("not json")
	assert.Error(t, e.JSON(&v))
}

func TestDuration(t *testing.T) {
	e := &Execution{}
	assert.Equal(t, time.Duration(0), e.Duration())
	assert.False(t, e.Started())
	assert.False(t, e.Ended())

	e.Start = time.Now().Add(-time.Second)
	assert.True(t, e.Started())
	assert.False(t, e.Ended())
	assert.GreaterOrEqual(t, int64(e.Duration()), int64(time.Second))

	e.End = e.Start.Add(2 * time.Second)
	assert.True(t, e.Ended())
	assert.Equal(t, 2*time.Second, e.Duration())
}

func TestTimeout(t *testing.T) {
	e := &Execution{}
	assert.False(t, e.Timeout())

	e.Err = errors.New("boom")
	assert.False(t, e.Timeout())

	e.Err = &url.Error{Op: "Get", URL: "http://example.com", Err: context.DeadlineExceeded}
	assert.True(t, e.Timeout())

	e.Err = &url.Error{Op: "Get", URL: "http://example.com", Err: context.Canceled}
	assert.False(t, e.Timeout())
}

func TestValue(t *testing.T) {
	type keyA struct{}
	type keyB struct{}
	e := &Execution{}
	assert.Nil(t, e.Value(keyA{}))

	e.SetValue(keyA{}, "a")
	e.SetValue(keyB{}, 2)
	assert.Equal(t, "a", e.Value(keyA{}))
	assert.Equal(t, 2, e.Value(keyB{}))

	e.SetValue(keyA{}, "replaced")
	assert.Equal(t, "replaced", e.Value(keyA{}))
}

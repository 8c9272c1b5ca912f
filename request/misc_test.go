// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyBytes(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		b, err := BodyBytes(nil)
		require.NoError(t, err)
		assert.Nil(t, b)
	})
	t.Run("string", func(t *testing.T) {
		b, err := BodyBytes("hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), b)
	})
	t.Run("bytes", func(t *testing.T) {
		in := []byte{1, 2, 3}
		b, err := BodyBytes(in)
		require.NoError(t, err)
		assert.Equal(t, in, b)
	})
	t.Run("reader", func(t *testing.T) {
		b, err := BodyBytes(strings.NewReader("stream"))
		require.NoError(t, err)
		assert.Equal(t, []byte("stream"), b)
	})
	t.Run("read closer", func(t *testing.T) {
		rc := &countingCloser{Reader: strings.NewReader("closing")}
		b, err := BodyBytes(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("closing"), b)
		assert.Equal(t, 1, rc.closed)
	})
	t.Run("read error", func(t *testing.T) {
		b, err := BodyBytes(io.NopCloser(badReader{}))
		assert.Nil(t, b)
		assert.EqualError(t, err, "read failed")
	})
	t.Run("invalid type", func(t *testing.T) {
		b, err := BodyBytes(42)
		assert.Nil(t, b)
		assert.Error(t, err)
	})
}

type countingCloser struct {
	io.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

type badReader struct{}

func (badReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

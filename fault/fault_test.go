// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsAreFactories(t *testing.T) {
	factories := map[string]Factory{
		"NewNetwork":          NewNetwork,
		"NewTimeout":          NewTimeout,
		"NewUnauthenticated":  NewUnauthenticated,
		"NewEndpointNotFound": NewEndpointNotFound,
		"NewIllegalArgument":  NewIllegalArgument,
		"NewService":          NewService,
	}
	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			err := f("mockErrorMessage")
			require.Error(t, err)
			assert.Equal(t, "mockErrorMessage", err.Error())
		})
	}
}

func TestMessageOnly(t *testing.T) {
	// Typed errors are message-only: nothing to unwrap.
	err := NewNetwork("canceled")
	assert.Nil(t, errors.Unwrap(err))
	assert.Equal(t, "canceled", err.Error())
}

func TestTypedMatching(t *testing.T) {
	var timeoutErr *TimeoutError
	assert.True(t, errors.As(NewTimeout("deadline exceeded"), &timeoutErr))
	assert.Equal(t, "deadline exceeded", timeoutErr.Message)

	var networkErr *NetworkError
	assert.False(t, errors.As(NewTimeout("deadline exceeded"), &networkErr))
	assert.True(t, errors.As(NewNetwork("connection refused"), &networkErr))
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Status: 418, Body: []byte("short and stout")}
	assert.Equal(t, "service returned status 418: short and stout", err.Error())
}

// Copyright 2026 The svcx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package svcx provides a service-client facade over an opaque HTTP
transport. It normalizes transport and application failures into a
stable taxonomy of typed errors (package fault) and transparently
retries transient failures of idempotent requests.

Create a Client to begin making requests.

	client := &svcx.Client{}
	ex, err := client.Get("https://api.example.com/things")
	...
	ex, err := client.Post("https://api.example.com/things",
		"application/json", &buf)

Every error returned by a Client method is one of the typed errors from
package fault, so callers can branch on failure class without parsing
message strings:

	ex, err := client.Get("https://api.example.com/things")
	var timeoutErr *fault.TimeoutError
	if errors.As(err, &timeoutErr) {
		...
	}

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer, for example a Go standard HTTP
client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &svcx.Client{
		HTTPDoer: doer,
	}

For control over the client's retry decisions and timing, create a
custom retry policy using components from package retry:

	retryWaiter := retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, time.Now())
	retryPolicy := retry.NewPolicy(retry.DefaultDecider, retryWaiter)
	client := &svcx.Client{
		RetryPolicy: retryPolicy,
	}

For control over the client's individual attempt timeouts, set a custom
timeout policy using package timeout:

	client := &svcx.Client{
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

To control how application errors reported by the remote service are
converted into typed errors, configure an error handler or an envelope
resolver (see package classify):

	client.ConfigureResolver(&classify.Resolver{
		Names: map[string]fault.Factory{
			"ValidationError": fault.NewIllegalArgument,
		},
		Fallback: fault.NewService,
	})

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain:

	handlers := &svcx.HandlerGroup{}
	handlers.PushBack(svcx.BeforeAttempt, svcx.HandlerFunc(
		func(_ svcx.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL.String())
		}),
	)
	client := &svcx.Client{
		Handlers: handlers,
	}

Package svcx provides basic interfaces for each method of the client
(Doer, Getter, Poster, FormPoster, Putter, Patcher, Deleter, and
IdleCloser); a combined interface that composes all the basic methods
(Executor); and utility functions for working with a Doer (Inflate,
Get, Post, PostForm, Put, Patch, and Delete).
*/
package svcx

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pollclient is an HTTP client for the Quickly Poll API.

A Client implements controller.StoreClient, so a presentation layer can
drive the voting controller against a running server:

	client := pollclient.New("http://localhost:3318", nil)
	c := controller.New(client, "alice@example.com")

Error responses are mapped back onto the store errors in models:
409 becomes ErrAlreadyVoted, 404 ErrQuestionNotFound and a 400 for an
unknown option ErrUnknownOption.
*/
package pollclient

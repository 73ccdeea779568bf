// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package controller manages the vote lifecycle of one user's poll session.

A Controller holds every active question together with its tally, the
user's pending selection, and a per-question phase:

	LOADING ──► OPEN ──► SUBMITTING ──► CLOSED
	               ▲          │
	               └──────────┘ (store failure)

# Usage

	c := controller.New(store, identity)
	if err := c.Load(ctx); err != nil {
		// c.IsLoading() stays true until a fetch succeeds
	}

	c.Select(1, "b")
	if err := c.Submit(ctx, 1, "", identity); err != nil {
		if controller.IsValidation(err) {
			// nothing was sent to the store
		}
	}

# Guarantees

A question in SUBMITTING rejects further submissions, so a double click sends
exactly one vote. A CLOSED question never returns to OPEN within a session.
Each change publishes a new question list; slices returned by Questions are
never modified afterwards. Dispose discards results that arrive later.
*/
package controller

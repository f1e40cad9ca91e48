// Package catalog is the transport to the remote star catalog: the
// duplicate-check query and the discovery submission call.
//
// The Sink interface is the single submission surface the rest of the
// agent sees. The transport is chosen once at startup, an HTTP client
// when an API key is configured and a local spool file otherwise,
// instead of branching at call sites.
//
// Errors are classified at this boundary: 5xx responses, timeouts, and
// transport failures are transient (the queue retries them with
// backoff); 4xx responses are permanent; a 409 carries the existing
// catalog id so the classifier can turn the retry into an edit.
package catalog

// Package queue drains the durable offline submission queue with
// exponential backoff.
//
// Submissions land in the queue when delivery fails transiently. A
// drain pass walks due items oldest first; the first transient failure
// aborts the pass, since one unreachable catalog means the rest will
// fail too. Each item carries its own retry budget, and items that
// exhaust it are parked rather than dropped, waiting for an explicit
// retry command.
package queue

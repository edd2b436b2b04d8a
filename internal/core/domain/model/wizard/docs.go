// Package wizard models the operator wizard document: a per-system projection of
// transfer events that the UI reads to know which batch, cycle and device stage
// the operator is on. The relational store stays authoritative; the document is
// rebuilt from outbox events and written with an optimistic version.
package wizard

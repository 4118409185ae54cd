// Package modules loads heavy visualisation modules on demand.
//
// Each module name moves through NotLoaded -> Loading -> Ready | Failed.
// Concurrent callers resolving the same name share one Future, so a loader
// runs at most once per name for the lifetime of the Resolver. Ready and
// Failed are terminal: entries are never evicted or retried.
//
// Loaders run on their own goroutine with a context detached from the first
// caller's cancellation; a caller that gives up waiting does not fail the load
// for everyone else.
package modules

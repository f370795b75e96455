// Package schema validates option maps against a mutable option schema.
//
// A Schema records which options exist, where positional options bind to
// constructor arguments, which options are required, their defaults and
// their allowed types. Resolve turns caller-supplied configuration into a
// fully populated Resolved map or fails with one aggregated error per
// violation category.
//
// A Schema is not safe for concurrent mutation. Concurrent Resolve calls on
// a schema that is no longer mutated are safe.
package schema

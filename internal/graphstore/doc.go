// Package graphstore holds the graph discovered during one search session.
//
// # Why Graph Store Exists
//
// The search service reports pages and links as an unordered, append-only
// stream. The graph store accumulates that stream without judging it: nodes
// are keyed by id and kept in first-insertion order, edges are kept exactly
// as they arrived, including edges whose endpoints have not been reported yet.
//
// Interpreting the graph (choosing a root, resolving dangling edges, marking
// the winning path) is the job of the projector, which rebuilds its view from
// a store snapshot on every change.
//
// # Lifecycle
//
//  1. **Created** once per controller, empty.
//  2. **Populated** by node_added and link_added messages of the current session.
//  3. **Read** as ordered snapshots for projection and publication.
//  4. **Reset** when a new session starts or the controller is reset.
//
// Nothing is ever removed except by Reset.
//
// # Thread-Safety
//
// All methods are safe for concurrent use. Snapshots are copies and may be
// retained by the caller.
package graphstore

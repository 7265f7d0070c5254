// Package protocol defines the wire format spoken between the pathfinder
// client and the search service.
//
// A session sends exactly one request (see SearchConfig) right after the
// connection opens. The service then streams JSON messages discriminated by
// their "type" field:
//
//	status      {"msg": "..."}
//	node_added  {"node": {"id": "...", "title": "...", "depth": 0}}
//	link_added  {"link": {"source": "...", "target": "..."}}
//	path_found  {"path": ["...", "..."], "time": 1.25}
//
// Decode validates each message before it reaches the graph. Anything that
// fails validation is reported with an error wrapping ErrMalformed; types the
// client does not know are returned as-is so callers can skip them.
package protocol

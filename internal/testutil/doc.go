// Package testutil holds helpers shared by the test suites: a thread-safe
// output buffer, a temporary file tree writer and a scripted search service
// that speaks the service's websocket protocol.
package testutil

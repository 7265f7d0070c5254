// Package app contains the core application logic. It wires the transport,
// the session controller and the optional state server together, runs one
// search to completion and renders the final report, decoupled from any
// specific entrypoint like a CLI.
package app

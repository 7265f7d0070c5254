// Package session owns the connection to the search service and turns its
// event stream into published ViewState snapshots.
//
// # State Machine
//
//	        Start                open                 close / error
//	Idle ──────────▶ Connecting ──────────▶ Active ──────────────────▶ Closed
//	 ▲                   │                                               │
//	 └───────────────────┴────────────── Reset ──────────────────────────┘
//
// Start may be called in any phase; it tears down the current session first.
// Reset may be called in any phase and always lands in Idle with empty data.
// There is no automatic reconnect: a Closed controller stays Closed until the
// caller starts a new session.
//
// # Epochs
//
// Every Start creates a Session tagged with a fresh epoch. The goroutine that
// dials and reads a connection carries its Session, and the controller drops
// any open, message or close event whose session is no longer current. This
// is what keeps a slow or chatty superseded connection from leaking into the
// next search.
//
// # Ordering
//
// Each connection is read by a single goroutine, and every handler runs under
// the controller mutex, so events of one session are applied strictly in
// delivery order. After each applied event the tree is reprojected and the
// resulting ViewState is handed to every subscriber before the next event is
// processed. Subscribers run under the controller lock and must not call back
// into the Controller.
//
// # Timeouts
//
// The controller defines none. A service that never answers keeps the
// controller in Connecting or Active until the caller resets it or cancels
// the context passed to Start. Cancelling closes the connection whatever the
// transport and lands in Closed with the data kept, while Reset lands in
// Idle with the data cleared.
package session
